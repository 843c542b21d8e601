/*
Package sqldataset provides an implementation of dataset.DataSource
that uses a table of an SQL database as backend.

Every column of the table is an attribute of the dataset, in the order
the database reports them, and every row a record. Values are compared
as text, so the columns are expected to hold TEXT values. NULL values
are not supported.

SQLite3 (driver "sqlite3") and PostgreSQL (driver "postgres") databases
are supported out of the box.
*/
package sqldataset
