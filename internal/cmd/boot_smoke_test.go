package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/nntags/internal/config"
)

const (
	hostID = "aaaaaaaa-0000-0000-0000-000000000001"
	tagOne = "bbbbbbbb-0000-0000-0000-000000000001"
	tagTwo = "bbbbbbbb-0000-0000-0000-000000000002"
)

// fakeOrg serves the subset of the web API the commands touch.
type fakeOrg struct {
	mu     sync.Mutex
	linked map[string]bool
	calls  []string
}

func (f *fakeOrg) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/api/data/v9.1/")
	f.calls = append(f.calls, r.Method+" "+path)

	write := func(v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	switch {
	case path == "WhoAmI":
		write(map[string]string{"UserId": "cccccccc-0000-0000-0000-000000000001"})
	case path == "EntityDefinitions(LogicalName='account')":
		write(map[string]string{"EntitySetName": "accounts"})
	case path == "EntityDefinitions(LogicalName='nn_tag')":
		write(map[string]string{"EntitySetName": "nn_tags"})
	case path == "nn_account_tag" && r.Method == http.MethodGet:
		var value []map[string]string
		for _, id := range []string{tagOne, tagTwo} {
			if f.linked[id] {
				value = append(value, map[string]string{"nn_tagid": id})
			}
		}
		write(map[string]any{"value": value})
	case path == "nn_tags":
		write(map[string]any{"value": []map[string]string{
			{"nn_tagid": tagOne, "nn_name": "Urgent"},
			{"nn_tagid": tagTwo, "nn_name": "Later"},
		}})
	case path == fmt.Sprintf("accounts(%s)/nn_account_tag/$ref", hostID) && r.Method == http.MethodPost:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		id := body["@odata.id"]
		id = id[strings.LastIndex(id, "(")+1 : len(id)-1]
		f.linked[id] = true
		w.WriteHeader(http.StatusNoContent)
	case strings.HasPrefix(path, fmt.Sprintf("accounts(%s)/nn_account_tag(", hostID)) && r.Method == http.MethodDelete:
		id := strings.TrimSuffix(strings.TrimPrefix(path, fmt.Sprintf("accounts(%s)/nn_account_tag(", hostID)), ")/$ref")
		delete(f.linked, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"0x0","message":"Resource not found"}}`))
	}
}

func setupOrg(t *testing.T, linked ...string) (*fakeOrg, *httptest.Server) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"NNTAGS_BASE_URL", "NNTAGS_ACCESS_TOKEN", "NNTAGS_HOST_ID", "NNTAGS_HOST_ENTITY",
		"NNTAGS_RELATIONSHIP_NAME", "NNTAGS_RELATED_ENTITY", "NNTAGS_COLUMNS", "NNTAGS_CONTROL_DISABLED"} {
		t.Setenv(k, "")
	}

	org := &fakeOrg{linked: map[string]bool{}}
	for _, id := range linked {
		org.linked[id] = true
	}
	srv := httptest.NewServer(org)
	t.Cleanup(srv.Close)
	return org, srv
}

func saveConfig(t *testing.T, baseURL string) {
	t.Helper()
	cfg := &config.Config{
		BaseURL:          baseURL,
		AccessToken:      "token",
		HostEntity:       "account",
		HostID:           hostID,
		RelationshipName: "nn_account_tag",
		RelatedEntity:    "nn_tag",
		Columns:          []string{"nn_name"},
	}
	require.NoError(t, cfg.Save())
}

func TestLoginRejectsEmptyBaseURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	err := RunInteractiveLogin(context.Background(), strings.NewReader("\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoginSavesConfig(t *testing.T) {
	_, srv := setupOrg(t)

	input := strings.Join([]string{srv.URL, "token", "account", hostID, "nn_account_tag", "nn_tag", "nn_name, nn_color"}, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, RunInteractiveLogin(context.Background(), strings.NewReader(input), &out))
	assert.Contains(t, out.String(), "connected as user cccccccc-0000-0000-0000-000000000001")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, srv.URL, cfg.BaseURL)
	assert.Equal(t, []string{"nn_name", "nn_color"}, cfg.Columns)
}

func TestLoginFailsWhenServerRejects(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	input := strings.Join([]string{srv.URL, "bad", "account", hostID, "rel", "nn_tag", ""}, "\n") + "\n"
	err := RunInteractiveLogin(context.Background(), strings.NewReader(input), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestLinksCmdNotLoggedInErrors(t *testing.T) {
	setupOrg(t)

	cmd := LinksCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLinksCmdPrintsLinkedIDs(t *testing.T) {
	_, srv := setupOrg(t, tagTwo)
	saveConfig(t, srv.URL)

	var out bytes.Buffer
	cmd := LinksCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, tagTwo+"\n", out.String())
}

func TestLinksCmdAllShowsState(t *testing.T) {
	_, srv := setupOrg(t, tagOne)
	saveConfig(t, srv.URL)

	var out bytes.Buffer
	cmd := LinksCmd()
	cmd.SetArgs([]string{"--all"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "[x] "+tagOne+"  Urgent")
	assert.Contains(t, out.String(), "[ ] "+tagTwo+"  Later")
}

func TestToggleCmdFlipsLinks(t *testing.T) {
	org, srv := setupOrg(t, tagOne)
	saveConfig(t, srv.URL)

	var out bytes.Buffer
	cmd := ToggleCmd()
	cmd.SetArgs([]string{tagOne, strings.ToUpper(tagTwo)})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "unlinked "+tagOne)
	assert.Contains(t, out.String(), "linked "+tagTwo)
	assert.False(t, org.linked[tagOne])
	assert.True(t, org.linked[tagTwo])
}

func TestToggleCmdUnknownRecordFails(t *testing.T) {
	_, srv := setupOrg(t)
	saveConfig(t, srv.URL)

	var out bytes.Buffer
	cmd := ToggleCmd()
	cmd.SetArgs([]string{"not-a-tag"})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "skipped not-a-tag")
}

func TestToggleCmdRequiresArgs(t *testing.T) {
	cmd := ToggleCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestResolveCmd(t *testing.T) {
	_, srv := setupOrg(t)
	saveConfig(t, srv.URL)

	var out bytes.Buffer
	cmd := ResolveCmd()
	cmd.SetArgs([]string{"nn_tag"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "nn_tags\n", out.String())
}

func TestResolveCmdUnknownEntity(t *testing.T) {
	_, srv := setupOrg(t)
	saveConfig(t, srv.URL)

	cmd := ResolveCmd()
	cmd.SetArgs([]string{"contact"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource not found")
}
