package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// MaxListLogLength is the maximum number of list elements to log verbatim.
const MaxListLogLength = 8

// EntityField returns a zap field identifying a (model, scenario) entity.
func EntityField(model, scenario string) zap.Field {
	return zap.String("entity", model+"/"+scenario)
}

// ListField returns a zap field for a possibly long list of labels,
// truncating the tail so log lines stay readable.
func ListField(key string, values []string) zap.Field {
	if len(values) <= MaxListLogLength {
		return zap.Strings(key, values)
	}
	truncated := make([]string, MaxListLogLength, MaxListLogLength+1)
	copy(truncated, values[:MaxListLogLength])
	truncated = append(truncated, fmt.Sprintf("... (%d more)", len(values)-MaxListLogLength))
	return zap.Strings(key, truncated)
}
