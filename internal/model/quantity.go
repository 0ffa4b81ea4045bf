package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Quantity holds an ingredient amount as found in source data, which mixes
// JSON numbers ("qty": 2) and strings ("qty": "1/2"). It round-trips in the
// form it arrived in.
type Quantity struct {
	Value   string
	numeric bool
}

// Qty builds a numeric Quantity.
func Qty(n float64) Quantity {
	return Quantity{Value: strconv.FormatFloat(n, 'f', -1, 64), numeric: true}
}

// QtyText builds a textual Quantity such as "1/2".
func QtyText(s string) Quantity {
	return Quantity{Value: s}
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = Quantity{}
		return nil
	}

	// Try to unmarshal as number first
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*q = Qty(num)
		return nil
	}

	// Try to unmarshal as string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*q = QtyText(str)
		return nil
	}

	return fmt.Errorf("invalid quantity format")
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Value == "" {
		return []byte("null"), nil
	}
	if q.numeric {
		return []byte(q.Value), nil
	}
	return json.Marshal(q.Value)
}

func (q Quantity) String() string {
	return q.Value
}
