package sqldataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	// Import of postgres driver
	_ "github.com/lib/pq"
	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/feature"
	"github.com/pkg/errors"
)

/*
Dataset is a dataset.DataSource backed by an SQL table to which records
can be added and from which all records can be listed.
*/
type Dataset interface {
	dataset.DataSource
	dataset.Lister
	Write(context.Context, []feature.Record) (int, error)
}

type sqlDataset struct {
	db         *sqlx.DB
	table      string
	attributes []string
}

/*
Connect takes a driver name and a data source name and returns an
*sqlx.DB connected to the database they define, or an error if it
does not respond.
*/
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s database", driver)
	}
	return db, nil
}

/*
Open takes a database and the name of a table in it and returns a Dataset
whose attributes are the columns of the table, or an error if the table
cannot be queried.
*/
func Open(ctx context.Context, db *sqlx.DB, table string) (Dataset, error) {
	qt, err := quote(table)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", qt))
	if err != nil {
		return nil, errors.Wrapf(err, "querying table %s", table)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrapf(err, "listing columns of table %s", table)
	}
	for _, c := range columns {
		if _, err = quote(c); err != nil {
			return nil, err
		}
	}
	return &sqlDataset{db, table, columns}, nil
}

/*
Create takes a database, a table name and the attributes of a dataset
and returns a Dataset on a table with a TEXT column for each attribute,
creating it if it does not exist.
*/
func Create(ctx context.Context, db *sqlx.DB, table string, attributes []string) (Dataset, error) {
	qt, err := quote(table)
	if err != nil {
		return nil, err
	}
	if len(attributes) == 0 {
		return nil, fmt.Errorf("cannot create table %s without attributes", table)
	}
	columns := make([]string, 0, len(attributes))
	for _, a := range attributes {
		qa, err := quote(a)
		if err != nil {
			return nil, err
		}
		columns = append(columns, fmt.Sprintf("%s TEXT NOT NULL", qa))
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", qt, strings.Join(columns, ", "))
	if _, err = db.ExecContext(ctx, stmt); err != nil {
		return nil, errors.Wrapf(err, "creating table %s", table)
	}
	return &sqlDataset{db, table, append([]string(nil), attributes...)}, nil
}

func (sd *sqlDataset) CountMatching(ctx context.Context, c feature.Criteria) (int, error) {
	where, args, err := sd.whereClause(c)
	if err != nil {
		return 0, err
	}
	query := sd.db.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s%s", sd.quotedTable(), where))
	var count int
	err = sd.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "counting records matching %v", c)
	}
	return count, nil
}

func (sd *sqlDataset) Attributes(ctx context.Context) ([]string, error) {
	return append([]string(nil), sd.attributes...), nil
}

func (sd *sqlDataset) DistinctValues(ctx context.Context, attribute string) ([]string, error) {
	if !sd.hasAttribute(attribute) {
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}
	qa, _ := quote(attribute)
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", qa, sd.quotedTable(), qa)
	var values []string
	err := sd.db.SelectContext(ctx, &values, query)
	if err != nil {
		return nil, errors.Wrapf(err, "listing values of attribute %s", attribute)
	}
	return values, nil
}

func (sd *sqlDataset) Records(ctx context.Context) ([]feature.Record, error) {
	columns := make([]string, 0, len(sd.attributes))
	for _, a := range sd.attributes {
		qa, _ := quote(a)
		columns = append(columns, qa)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), sd.quotedTable())
	rows, err := sd.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	defer rows.Close()
	var records []feature.Record
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.Wrap(err, "reading record")
		}
		r := make(feature.Record, len(values))
		for i, v := range values {
			s, err := toString(v)
			if err != nil {
				return nil, errors.Wrapf(err, "reading attribute %s", sd.attributes[i])
			}
			r[sd.attributes[i]] = s
		}
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	return records, nil
}

/*
Write takes a slice of records and inserts them in the table in a
single transaction. It returns the number of records written, which is 0
if an error is returned.
*/
func (sd *sqlDataset) Write(ctx context.Context, records []feature.Record) (int, error) {
	columns := make([]string, 0, len(sd.attributes))
	placeholders := make([]string, 0, len(sd.attributes))
	for _, a := range sd.attributes {
		qa, _ := quote(a)
		columns = append(columns, qa)
		placeholders = append(placeholders, "?")
	}
	stmt := sd.db.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", sd.quotedTable(), strings.Join(columns, ", "), strings.Join(placeholders, ", ")))
	tx, err := sd.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	for i, r := range records {
		args := make([]interface{}, 0, len(sd.attributes))
		for _, a := range sd.attributes {
			v, ok := r[a]
			if !ok {
				tx.Rollback()
				return 0, fmt.Errorf("record %d has no value for attribute %q", i, a)
			}
			args = append(args, v)
		}
		if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "inserting record %d", i)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing records")
	}
	return len(records), nil
}

func (sd *sqlDataset) whereClause(c feature.Criteria) (string, []interface{}, error) {
	if len(c) == 0 {
		return "", nil, nil
	}
	attributes := c.Attributes()
	conditions := make([]string, 0, len(attributes))
	args := make([]interface{}, 0, len(attributes))
	for _, a := range attributes {
		if !sd.hasAttribute(a) {
			return "", nil, fmt.Errorf("unknown attribute %q", a)
		}
		qa, _ := quote(a)
		conditions = append(conditions, fmt.Sprintf("%s = ?", qa))
		args = append(args, c[a])
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func (sd *sqlDataset) quotedTable() string {
	qt, _ := quote(sd.table)
	return qt
}

func (sd *sqlDataset) hasAttribute(attribute string) bool {
	for _, a := range sd.attributes {
		if a == attribute {
			return true
		}
	}
	return false
}

func quote(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty identifier")
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`identifier '%s' contains invalid character '"'`, name)
	}
	return `"` + name + `"`, nil
}

func toString(v interface{}) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", fmt.Errorf("NULL values are not supported")
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	}
	return fmt.Sprintf("%v", v), nil
}
