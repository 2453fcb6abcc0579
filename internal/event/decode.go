package event

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodePayload decodes an event payload into T via type assertion then JSON fallback.
// When events are published via in-process MemoryBus, the payload is already the correct struct.
// When coming from serialized sources, the fallback JSON round-trip handles the conversion.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	var data []byte
	switch raw := input.(type) {
	case json.RawMessage:
		data = raw
	case []byte:
		data = raw
	default:
		var err error
		if data, err = json.Marshal(input); err != nil {
			return result, err
		}
	}
	return result, json.Unmarshal(data, &result)
}

// DecodeAndValidate decodes the payload and runs struct validation on it.
func DecodeAndValidate[T any](input interface{}) (T, error) {
	result, err := DecodePayload[T](input)
	if err != nil {
		return result, fmt.Errorf("decode payload: %w", err)
	}
	if reflect.Indirect(reflect.ValueOf(result)).Kind() != reflect.Struct {
		return result, nil
	}
	if err := validate.Struct(result); err != nil {
		return result, fmt.Errorf("%s: %w", LogMsgPayloadInvalid, err)
	}
	return result, nil
}
