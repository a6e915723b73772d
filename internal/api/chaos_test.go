package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConcurrentLinks(t *testing.T) {
	var count atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/nn_account_tag/$ref") {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Contains(t, body["@odata.id"], "/nn_tags(")
			count.Add(1)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	const workers = 50
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errCh <- client.CreateLink(context.Background(), testRelationship(), fmt.Sprintf("tag-%d", i))
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}

func TestClientGarbageErrorBodies(t *testing.T) {
	bodies := map[string]string{
		"html":        "<html>bad gateway</html>",
		"empty":       "",
		"array":       `[1,2,3]`,
		"blank error": `{"error":{"code":"","message":"  "}}`,
		"null error":  `{"error":null}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, client := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(body))
			})

			err := client.RemoveLink(context.Background(), testRelationship(), "tag-1")
			require.Error(t, err)
			assert.Equal(t, "Bad Gateway", err.Error())
		})
	}
}

func TestClientInnerErrorMessage(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"0x1","innererror":{"message":"Duplicate key"}}}`))
	})

	err := client.CreateLink(context.Background(), testRelationship(), "tag-1")
	require.Error(t, err)
	assert.Equal(t, "Duplicate key", err.Error())
}
