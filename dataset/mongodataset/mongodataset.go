/*
Package mongodataset provides a implementation of dataset.DataSource
that uses a MongoDB database as backend.

Records are stored as documents of the records collection of the
session default database, with one string field per attribute.
*/
package mongodataset

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/feature"
	"github.com/pkg/errors"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.DataSource to which records can be added
and from which records can be sequentially read
*/
type Dataset interface {
	dataset.DataSource
	dataset.Lister
	Write(context.Context, []feature.Record) (int, error)
	Read(context.Context) (<-chan feature.Record, <-chan error)
}

type mongodataset struct {
	session    *mgo.Session
	attributes []string
}

const (
	recordsCollectionName = "records"
)

/*
Dial takes a MongoDB URL and returns a session on it or an error if
the server cannot be reached. The URL must name the database to use.
*/
func Dial(url string) (*mgo.Session, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	return session, nil
}

/*
Open takes a MongoDB database session and the attributes of the dataset
in canonical order and returns a Dataset that works on the default
database for that session or an error if it fails to set it up.
*/
func Open(ctx context.Context, session *mgo.Session, attributes []string) (Dataset, error) {
	mds := &mongodataset{session, append([]string(nil), attributes...)}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) CountMatching(ctx context.Context, c feature.Criteria) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	q, err := mds.queryFor(c)
	if err != nil {
		return 0, err
	}
	count, err := mds.recordsCollection().Find(q).Count()
	if err != nil {
		return 0, errors.Wrapf(err, "counting records matching %v", c)
	}
	return count, nil
}

func (mds *mongodataset) Attributes(context.Context) ([]string, error) {
	return append([]string(nil), mds.attributes...), nil
}

func (mds *mongodataset) DistinctValues(ctx context.Context, attribute string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !mds.hasAttribute(attribute) {
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}
	var raw []interface{}
	err := mds.recordsCollection().Find(nil).Distinct(attribute, &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "listing values of attribute %s", attribute)
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, fmt.Sprintf("%v", v))
	}
	sort.Strings(values)
	return values, nil
}

func (mds *mongodataset) Records(ctx context.Context) ([]feature.Record, error) {
	var records []feature.Record
	recordChan, errs := mds.Read(ctx)
	for r := range recordChan {
		records = append(records, r)
	}
	err := <-errs
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (mds *mongodataset) Write(ctx context.Context, records []feature.Record) (int, error) {
	docs := make([]interface{}, 0, len(records))
	for i, r := range records {
		doc := make(bson.M, len(mds.attributes))
		for _, a := range mds.attributes {
			v, ok := r[a]
			if !ok {
				return 0, fmt.Errorf("record %d has no value for attribute %q", i, a)
			}
			doc[a] = v
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := mds.recordsCollection().Insert(docs...)
	if err != nil {
		return 0, errors.Wrap(err, "inserting records")
	}
	return len(records), nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan feature.Record, <-chan error) {
	records := make(chan feature.Record)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(records)
		var doc bson.M
		var err error
		iter := mds.recordsCollection().Find(nil).Select(bson.M{"_id": 0}).Iter()
		defer iter.Close()
	loop:
		for iter.Next(&doc) {
			r := make(feature.Record, len(mds.attributes))
			for _, a := range mds.attributes {
				v, ok := doc[a]
				if !ok || v == nil {
					err = fmt.Errorf("record has no value for attribute %q", a)
					break loop
				}
				r[a] = fmt.Sprintf("%v", v)
			}
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case records <- r:
			}
		}
		if err == nil {
			err = iter.Err()
		}
		if err != nil {
			errs <- err
		}
	}()
	return records, errs
}

func (mds *mongodataset) ensureIndexes() error {
	for _, a := range mds.attributes {
		if err := validateAttribute(a); err != nil {
			return err
		}
		index := mgo.Index{
			Key:        []string{a},
			Background: true,
			Sparse:     true,
		}
		err := mds.recordsCollection().EnsureIndex(index)
		if err != nil {
			return errors.Wrapf(err, "creating index on attribute %s", a)
		}
	}
	return nil
}

func (mds *mongodataset) recordsCollection() *mgo.Collection {
	return mds.session.DB("").C(recordsCollectionName)
}

func (mds *mongodataset) queryFor(c feature.Criteria) (bson.M, error) {
	q := make(bson.M, len(c))
	for a, v := range c {
		if !mds.hasAttribute(a) {
			return nil, fmt.Errorf("unknown attribute %q", a)
		}
		q[a] = v
	}
	return q, nil
}

func (mds *mongodataset) hasAttribute(attribute string) bool {
	for _, a := range mds.attributes {
		if a == attribute {
			return true
		}
	}
	return false
}

func validateAttribute(name string) error {
	if name == "_id" {
		return fmt.Errorf("invalid attribute name %q: reserved collection field", "_id")
	}
	if name == "" || strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid attribute name %q: empty or contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}
