package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoagent/types"
)

func TestSchemaForUnknownIntent(t *testing.T) {
	_, err := SchemaFor(types.Intent("make_coffee"))
	var unknown *ErrUnknownIntent
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, types.Intent("make_coffee"), unknown.Intent)
}

func TestConversationalIntentsHaveNoSchema(t *testing.T) {
	assert.False(t, HasSchema(types.IntentGreeting))
	assert.False(t, HasSchema(types.IntentGeneralTalks))
}

func TestEveryNonConversationalIntentHasSchema(t *testing.T) {
	for _, intent := range types.AllIntents {
		if intent.Conversational() {
			continue
		}
		spec, err := SchemaFor(intent)
		require.NoError(t, err, "intent %s", intent)
		assert.NotEmpty(t, spec, "intent %s", intent)
	}
}

func TestImageTypeConditionalOnMedia(t *testing.T) {
	spec, err := SchemaFor(types.IntentCreateContent)
	require.NoError(t, err)

	var imageType types.FieldSpec
	for _, f := range spec {
		if f.Name == "image_type" {
			imageType = f
		}
	}
	require.NotNil(t, imageType.When)

	assert.False(t, imageType.RequiredNow(types.Payload{"media": "Upload"}))
	assert.False(t, imageType.RequiredNow(types.Payload{}))
	assert.True(t, imageType.RequiredNow(types.Payload{"media": MediaGenerate}))
}

func TestMediaOrderedAfterPrecedingFields(t *testing.T) {
	spec, err := SchemaFor(types.IntentCreateContent)
	require.NoError(t, err)

	idx := map[string]int{}
	for i, f := range spec {
		idx[f.Name] = i
	}
	for _, name := range []string{"channel", "platform", "content_type", "content_idea", "post_type"} {
		assert.Less(t, idx[name], idx["media"], "%s must be asked before media", name)
	}
	assert.Less(t, idx["media"], idx["image_type"])
}
