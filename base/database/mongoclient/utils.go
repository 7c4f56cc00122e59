package mongoclient

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// MakeBsonM turns a struct into a selector. Zero fields and nil pointers are
// left out, pointers are dereferenced.
func MakeBsonM(patchable interface{}) (bson.M, error) {
	val := reflect.ValueOf(patchable)
	if val.Kind() == reflect.Ptr && val.Elem().Kind() == reflect.Struct {
		val = val.Elem()
	}

	bsonM := bson.M{}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		tag, err := bsoncodec.DefaultStructTagParser(val.Type().Field(i))
		if err != nil {
			return nil, err
		}
		if tag.Skip || !field.CanInterface() || field.IsZero() {
			continue
		}
		if field.Kind() == reflect.Ptr {
			bsonM[tag.Name] = field.Elem().Interface()
		} else {
			bsonM[tag.Name] = field.Interface()
		}
	}
	return bsonM, nil
}
