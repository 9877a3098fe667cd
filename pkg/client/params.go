package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/diwise/tenant-store/pkg/document"
)

type RequestDecoratorFunc func([]string) []string

func urlParameters(parameters []RequestDecoratorFunc) string {
	params := make([]string, 0, 5)
	for _, rdf := range parameters {
		params = rdf(params)
	}

	if len(params) == 0 {
		return ""
	}

	return "?" + strings.Join(params, "&")
}

// Filter restricts the documents to those matching filter. A filter that
// cannot be marshalled is sent as an invalid parameter and rejected by the
// tenant store.
func Filter(filter document.Filter) RequestDecoratorFunc {
	return func(params []string) []string {
		b, err := json.Marshal(filter)
		if err != nil {
			return append(params, "filter=invalid")
		}
		return append(params, "filter="+url.QueryEscape(string(b)))
	}
}

func Populate(paths ...string) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, "populate="+url.QueryEscape(strings.Join(paths, ",")))
	}
}

// SortBy orders the result by the given keys. Prefix a key with a minus
// sign for descending order.
func SortBy(keys ...string) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, "sort="+url.QueryEscape(strings.Join(keys, ",")))
	}
}

func Limit(limit int64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("limit=%d", limit))
	}
}

func Offset(offset int64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("offset=%d", offset))
	}
}

func Overwrite() RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, "overwrite=true")
	}
}
