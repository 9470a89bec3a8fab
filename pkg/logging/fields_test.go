package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestEntityField(t *testing.T) {
	f := EntityField("a_model", "a_scenario")
	assert.Equal(t, "entity", f.Key)
	assert.Equal(t, "a_model/a_scenario", f.String)
}

func TestListFieldShort(t *testing.T) {
	f := ListField("variables", []string{"Primary Energy", "Primary Energy|Coal"})
	arr, ok := f.Interface.(zapcore.ArrayMarshaler)
	assert.True(t, ok)
	assert.NotNil(t, arr)
}

func TestListFieldTruncates(t *testing.T) {
	values := make([]string, 20)
	for i := range values {
		values[i] = fmt.Sprintf("v%d", i)
	}

	enc := zapcore.NewMapObjectEncoder()
	ListField("vars", values).AddTo(enc)

	logged, ok := enc.Fields["vars"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, logged, MaxListLogLength+1)
	assert.Equal(t, "... (12 more)", logged[MaxListLogLength])
}
