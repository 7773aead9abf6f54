package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Kind: KindObject, Properties: props, Required: required}
}

func TestCheck_UnresolvedSides(t *testing.T) {
	t.Parallel()

	s := obj(map[string]*Schema{"a": {Kind: KindString}}, "a")
	assert.Equal(t, StatusUnknown, Check(nil, s).Status)
	assert.Equal(t, StatusUnknown, Check(s, nil).Status)
	assert.Equal(t, StatusUnknown, Check(nil, nil).Status)
}

func TestCheck_ExtraProducerPropertiesAreFine(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{
		"id":    {Kind: KindNumber},
		"extra": {Kind: KindString},
	}, "id", "extra")
	consumer := obj(map[string]*Schema{"id": {Kind: KindNumber}}, "id")

	result := Check(producer, consumer)
	assert.Equal(t, StatusCompatible, result.Status)
	assert.Empty(t, result.Issues)
}

// An empty consumer accepts anything, whatever the producer looks like.
func TestCheck_EmptyConsumerNeverErrors(t *testing.T) {
	t.Parallel()

	consumer := &Schema{Kind: KindObject}
	producers := []*Schema{
		obj(nil),
		obj(map[string]*Schema{"x": {Kind: KindString}}, "x"),
		Unknown(),
	}
	for _, producer := range producers {
		result := Check(producer, consumer)
		assert.NotEqual(t, StatusError, result.Status)
	}
}

func TestCheck_MissingRequiredField(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{"id": {Kind: KindNumber}}, "id")
	consumer := obj(map[string]*Schema{
		"id":    {Kind: KindNumber},
		"email": {Kind: KindString},
	}, "id", "email")

	result := Check(producer, consumer)
	require.Equal(t, StatusError, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, CodeMissingField, result.Issues[0].Code)
	assert.Equal(t, "email", result.Issues[0].Path)
}

func TestCheck_MissingOptionalFieldIsFine(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{"id": {Kind: KindNumber}}, "id")
	consumer := obj(map[string]*Schema{
		"id":    {Kind: KindNumber},
		"email": {Kind: KindString},
	}, "id")

	assert.Equal(t, StatusCompatible, Check(producer, consumer).Status)
}

func TestCheck_OpenProducerDowngradesMissingToWarning(t *testing.T) {
	t.Parallel()

	producer := &Schema{Kind: KindObject, Open: true}
	consumer := obj(map[string]*Schema{"id": {Kind: KindNumber}}, "id")

	result := Check(producer, consumer)
	require.Equal(t, StatusWarning, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, CodeUnresolvedType, result.Issues[0].Code)
}

func TestCheck_TypeMismatch(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{"id": {Kind: KindString}}, "id")
	consumer := obj(map[string]*Schema{"id": {Kind: KindNumber}}, "id")

	result := Check(producer, consumer)
	require.Equal(t, StatusError, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, CodeTypeMismatch, result.Issues[0].Code)
	assert.Equal(t, SeverityError, result.Issues[0].Severity)
}

func TestCheck_UnknownProducerFieldIsWarning(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{"payload": Unknown()}, "payload")
	consumer := obj(map[string]*Schema{"payload": {Kind: KindObject}}, "payload")

	result := Check(producer, consumer)
	require.Equal(t, StatusWarning, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, CodeUnresolvedType, result.Issues[0].Code)
}

func TestCheck_NestedPaths(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{
		"user": obj(map[string]*Schema{
			"tags": {Kind: KindArray, Items: &Schema{Kind: KindNumber}},
		}, "tags"),
	}, "user")
	consumer := obj(map[string]*Schema{
		"user": obj(map[string]*Schema{
			"tags": {Kind: KindArray, Items: &Schema{Kind: KindString}},
		}, "tags"),
	}, "user")

	result := Check(producer, consumer)
	require.Equal(t, StatusError, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "user.tags[]", result.Issues[0].Path)
	assert.Equal(t, CodeTypeMismatch, result.Issues[0].Code)
}

func TestCheck_WorstSeverityWins(t *testing.T) {
	t.Parallel()

	producer := obj(map[string]*Schema{
		"a": Unknown(),
		"b": {Kind: KindString},
	}, "a", "b")
	consumer := obj(map[string]*Schema{
		"a": {Kind: KindString}, // warning: unresolved producer
		"b": {Kind: KindNumber}, // error: kind mismatch
	}, "a", "b")

	result := Check(producer, consumer)
	assert.Equal(t, StatusError, result.Status)
	assert.Len(t, result.Issues, 2)
}

func TestCheck_RootKindMismatch(t *testing.T) {
	t.Parallel()

	result := Check(&Schema{Kind: KindArray, Items: Unknown()}, &Schema{Kind: KindObject})
	require.Equal(t, StatusError, result.Status)
	assert.Equal(t, "", result.Issues[0].Path)
}
