package models

import "encoding/json"

// Record is one tabular row joined with the geometry of a matching label.
type Record struct {
	// RoomID is the identifier shared by the row and the label text.
	RoomID string
	// Attributes holds the remaining columns of the row.
	Attributes map[string]string
	// X is the label x coordinate.
	X float64
	// Y is the label y coordinate.
	Y float64
}

// MarshalJSON flattens the record into a single object:
// {"RoomID": ..., <column>: <value>, ..., "x": ..., "y": ...}.
func (r Record) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(r.Attributes)+3)
	for k, v := range r.Attributes {
		obj[k] = v
	}
	obj["RoomID"] = r.RoomID
	obj["x"] = r.X
	obj["y"] = r.Y
	return json.Marshal(obj)
}

// UnmarshalJSON reverses MarshalJSON. Non-string attribute values are kept
// in their JSON text form.
func (r *Record) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*r = Record{Attributes: make(map[string]string)}
	for k, raw := range obj {
		var err error
		switch k {
		case "RoomID":
			err = json.Unmarshal(raw, &r.RoomID)
		case "x":
			err = json.Unmarshal(raw, &r.X)
		case "y":
			err = json.Unmarshal(raw, &r.Y)
		default:
			var s string
			if json.Unmarshal(raw, &s) == nil {
				r.Attributes[k] = s
			} else {
				r.Attributes[k] = string(raw)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
