/*
Package json provides methods to parse records to classify from JSON
documents.
*/
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/pbanos/c45/feature"
)

/*
ReadRecords takes a slice of bytes with records specified in JSON and
returns a slice of records parsed from it or an error.
The JSON is expected to be an object containing a "records" property whose
value is an array of objects, each mapping attribute names to values, or a
single record under a "record" property. Numbers and booleans are converted
to their string representation, so that "windy": true is read as the value
"true".
*/
func ReadRecords(data []byte) ([]feature.Record, error) {
	document := struct {
		Record  map[string]interface{}   `json:"record"`
		Records []map[string]interface{} `json:"records"`
	}{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	err := decoder.Decode(&document)
	if err != nil {
		return nil, fmt.Errorf("parsing json records: %v", err)
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
			case map[string]interface{}, []interface{}:
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
ReadRecordsFromFile takes a path to a JSON file and returns the records
in it as ReadRecords does, or an error if it cannot be read or parsed.
*/
func ReadRecordsFromFile(path string) ([]feature.Record, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records from %s: %v", path, err)
	}
	return ReadRecords(data)
}
