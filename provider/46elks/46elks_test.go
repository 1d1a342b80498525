package elks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsForm(t *testing.T) {
	var form map[string]string
	var user, pass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		user, pass, _ = r.BasicAuth()
		form = map[string]string{
			"from":    r.PostForm.Get("from"),
			"to":      r.PostForm.Get("to"),
			"message": r.PostForm.Get("message"),
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	transport := New46ElksClient("Library", "api-user", "api-pass", SetEndpoint(server.URL), SetLogger(logger))

	err := transport.Send(context.Background(), "+46700000000", "Your book is due 6/18/19")
	require.NoError(t, err)

	assert.Equal(t, "api-user", user)
	assert.Equal(t, "api-pass", pass)
	assert.Equal(t, map[string]string{
		"from":    "Library",
		"to":      "+46700000000",
		"message": "Your book is due 6/18/19",
	}, form)
}

func TestSendFailsOnRejectedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	transport := New46ElksClient("Library", "api-user", "api-pass", SetEndpoint(server.URL), SetLogger(logger), SetRetryMax(0))

	err := transport.Send(context.Background(), "+46700000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
