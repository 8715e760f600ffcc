package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

type payload struct {
	Text  string   `json:"text"`
	Words []string `json:"words,omitempty"`
}

func TestJSON_Registered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, Name, c.Name())
}

func TestJSON_MarshalUnmarshal(t *testing.T) {
	c := JSON{}

	data, err := c.Marshal(&payload{Text: "hi", Words: []string{"sun"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi","words":["sun"]}`, string(data))

	var got payload
	require.NoError(t, c.Unmarshal([]byte(`{"text":"hello"}`), &got))
	assert.Equal(t, "hello", got.Text)

	assert.Error(t, c.Unmarshal([]byte(`{`), &got))
}
