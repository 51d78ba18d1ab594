package events

import "reflect"

// ExtractTableID returns the TableID field of an event, or "" when the event
// carries none.
func ExtractTableID(event Event) string {
	val := reflect.ValueOf(event)

	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() == reflect.Struct {
		tableID := val.FieldByName("TableID")
		if tableID.IsValid() && tableID.Kind() == reflect.String {
			return tableID.String()
		}
	}

	return ""
}
