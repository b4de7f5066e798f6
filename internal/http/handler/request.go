package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"medtracker/internal/validation"
)

const invalidIDMessage = "Validation failed (numeric string is expected)"

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, invalidIDMessage)
	}
	return id, nil
}

// bind decodes the JSON body into dst, rejecting unknown properties, and
// validates the result. An empty body decodes as an empty object.
func bind(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := decodeJSON(c.Body(), dst); err != nil {
		return err
	}
	return v.Struct(dst)
}

func decodeJSON(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return validation.Errors{{Message: fmt.Sprintf("property %s should not exist", field)}}
	case errors.As(err, &typeErr):
		return validation.Errors{{Field: typeErr.Field, Message: typeMessage(typeErr.Type)}}
	}
	return validation.Errors{{Message: "request body must be valid JSON"}}
}

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "must be an integer number"
	case reflect.String:
		return "must be a string"
	}
	return "has an invalid type"
}
