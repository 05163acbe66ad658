package storage

import (
	"fmt"

	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/convert"
	"github.com/wbrown/janus-values/sqlvalue/edn"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// envelopeName names the struct wrapping each stored record
const envelopeName = "record"

// envelope emits a record as a struct of its id and the union form of
// its value, so decoding restores the exact kind
type envelope Record

func (e envelope) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := s.SerializeStruct(envelopeName, 2)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("id", e.ID); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("value", sqlvalue.AsVariant(e.Value)); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

// encodeRecord renders the stored form of r
func encodeRecord(r Record) ([]byte, error) {
	text, err := edn.Marshal(envelope(r))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", r.ID, err)
	}
	return []byte(text), nil
}

// decodeRecord parses a stored record back into values
func decodeRecord(data []byte) (Record, error) {
	node, err := edn.Parse(string(data))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse record: %w", err)
	}
	v, err := convert.ToValue(node)
	if err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}

	obj, ok := v.(*sqlvalue.Object)
	if !ok {
		return Record{}, fmt.Errorf("stored record is %s, not an object", v.Kind())
	}
	idv, _ := obj.Get("id")
	id, ok := idv.(sqlvalue.Thing)
	if !ok {
		return Record{}, fmt.Errorf("stored record has no record id")
	}
	value, ok := obj.Get("value")
	if !ok {
		value = sqlvalue.None{}
	}
	return Record{ID: id, Value: value}, nil
}
