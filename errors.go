package c45

import "fmt"

// BuildError represents an error growing a tree that is not caused by
// the configuration nor by the data source failing.
type BuildError string

// ErrEmptyDataset is returned when growing a tree from a dataset without records.
const ErrEmptyDataset = BuildError("cannot grow a tree from an empty dataset")

func (be BuildError) Error() string {
	return string(be)
}

/*
ConfigError is returned when a builder is configured without a required
option or with an invalid value for one. No tree is grown then.
*/
type ConfigError struct {
	Option string
	Reason string
}

func (ce *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", ce.Option, ce.Reason)
}

/*
DataAccessError is returned when the data source a tree is grown from
fails. Op names the failed query and Err holds the error the data source
returned.
*/
type DataAccessError struct {
	Op  string
	Err error
}

func (dae *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed on %s: %v", dae.Op, dae.Err)
}

// Unwrap returns the error returned by the data source.
func (dae *DataAccessError) Unwrap() error {
	return dae.Err
}
