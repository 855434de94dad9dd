package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	t.Setenv("CHAT_KEY_TEST", "ck")
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt-4.1/chat/completions", r.URL.Path)
		assert.Equal(t, "ck", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"12 months"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, APIKeyEnv: "CHAT_KEY_TEST"})
	require.NoError(t, err)

	answer, err := c.Complete(context.Background(), "You are a precise assistant.", "Question: warranty?")
	require.NoError(t, err)
	assert.Equal(t, "12 months", answer)

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	assert.Equal(t, 0.2, got["temperature"])
	assert.EqualValues(t, 1500, got["max_tokens"])
}

func TestCompleteErrorStatus(t *testing.T) {
	t.Setenv("CHAT_KEY_TEST", "ck")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, APIKeyEnv: "CHAT_KEY_TEST"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "502")
	assert.ErrorContains(t, err, "upstream down")
}

func TestCompleteNoChoices(t *testing.T) {
	t.Setenv("CHAT_KEY_TEST", "ck")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, APIKeyEnv: "CHAT_KEY_TEST"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	assert.EqualError(t, err, "no completion returned")
}
