/*
Package yaml provides methods to parse records to classify from YAML
documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/c45/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadRecords takes a slice of bytes with records specified in YAML and
returns a slice of records parsed from it or an error.
The YAML is expected to be an object containing a records property whose
value is a list of objects, each mapping attribute names to values. A single
record can be given instead with a record property. Non-string scalar values
are converted to their string representation, so that `Windy: true` is
read as the value "true".
*/
func ReadRecords(data []byte) ([]feature.Record, error) {
	document := struct {
		Record  map[string]interface{}   `yaml:"record"`
		Records []map[string]interface{} `yaml:"records"`
	}{}
	err := yaml.Unmarshal(data, &document)
	if err != nil {
		return nil, fmt.Errorf("parsing yml records: %v", err)
	}
	raw := document.Records
	if document.Record != nil {
		raw = append([]map[string]interface{}{document.Record}, raw...)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("document has no record information")
	}
	records := make([]feature.Record, 0, len(raw))
	for i, rr := range raw {
		r := make(feature.Record, len(rr))
		for a, v := range rr {
			switch v := v.(type) {
			case nil:
				return nil, fmt.Errorf("record %d: attribute %s has no value", i+1, a)
			case map[interface{}]interface{}, []interface{}:
				return nil, fmt.Errorf("record %d: invalid value of type %T for attribute %s", i+1, v, a)
			default:
				r[a] = fmt.Sprintf("%v", v)
			}
		}
		records = append(records, r)
	}
	return records, nil
}

/*
ReadRecordsFromFile takes a filepath string, reads its contents and uses
ReadRecords to parse it and return a slice of parsed records or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadRecordsFromFile(filepath string) ([]feature.Record, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading records yml file %s: %v", filepath, err)
	}
	records, err := ReadRecords(data)
	if err != nil {
		err = fmt.Errorf("parsing records yml file %s: %v", filepath, err)
	}
	return records, err
}
