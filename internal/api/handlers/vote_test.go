package handlers_test

import (
	"net/http"
	"testing"

	"github.com/mari/awards-voting/internal/api/middleware"
	"github.com/mari/awards-voting/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voteMarker() map[string]string {
	return map[string]string{middleware.VoteMarkerHeader: "true"}
}

func TestVoteEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ts := testutil.NewTestServer(t)

	t.Run("submission requires a session", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)

		resp, _ := postJSON(t, client, ts.APIURL("/vote/"), map[string]any{
			"votes": []map[string]string{},
		}, voteMarker())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("submission requires the request marker", func(t *testing.T) {
		ts.DB.Truncate(t)
		testutil.OpenVoting(t, ts.DB.DB)
		category := testutil.SeedCategory(t, ts.DB.DB, "Best Picture", 2)

		// The marker check precedes session resolution: a request with
		// neither marker nor cookie gets the marker rejection, not a 401.
		anon := newClient(t)
		resp, body := postJSON(t, anon, ts.APIURL("/vote/"), map[string]any{
			"votes": []map[string]string{},
		}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Invalid request origin", body["error"])

		client := newClient(t)
		signIn(t, ts, client, "marker-voter@x.com")

		resp, body = postJSON(t, client, ts.APIURL("/vote/"), map[string]any{
			"votes": []map[string]string{
				{"categoryId": category.ID.String(), "nomineeId": category.Nominees[0].ID.String()},
			},
		}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Invalid request origin", body["error"])

		// No ballot was recorded; the marker check runs before everything else.
		resp, body = getJSON(t, client, ts.APIURL("/vote/"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["hasVoted"])
	})

	t.Run("full voting flow", func(t *testing.T) {
		ts.DB.Truncate(t)
		testutil.OpenVoting(t, ts.DB.DB)
		best := testutil.SeedCategory(t, ts.DB.DB, "Best Picture", 3)
		worst := testutil.SeedCategory(t, ts.DB.DB, "Worst Remake", 2)
		client := newClient(t)
		signIn(t, ts, client, "flow-voter@x.com")

		resp, body := getJSON(t, client, ts.APIURL("/vote/"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, false, body["hasVoted"])

		resp, body = postJSON(t, client, ts.APIURL("/vote/"), map[string]any{
			"votes": []map[string]string{
				{"categoryId": best.ID.String(), "nomineeId": best.Nominees[1].ID.String()},
				{"categoryId": worst.ID.String(), "nomineeId": worst.Nominees[0].ID.String()},
			},
		}, voteMarker())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])

		// Confirmations carry the category and timestamp but never the choice.
		data := body["data"].([]any)
		require.Len(t, data, 2)
		for _, entry := range data {
			confirmation := entry.(map[string]any)
			assert.Contains(t, confirmation, "categoryId")
			assert.Contains(t, confirmation, "castAt")
			assert.NotContains(t, confirmation, "nomineeId")
		}

		captured := ts.Sender.WaitConfirmation(t)
		assert.Equal(t, "flow-voter@x.com", captured.To)
		assert.Equal(t, 2, captured.CategoryCount)

		resp, body = getJSON(t, client, ts.APIURL("/vote/"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["hasVoted"])

		// The ballot is final.
		resp, body = postJSON(t, client, ts.APIURL("/vote/"), map[string]any{
			"votes": []map[string]string{
				{"categoryId": best.ID.String(), "nomineeId": best.Nominees[2].ID.String()},
			},
		}, voteMarker())
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, true, body["alreadyVoted"])
	})

	t.Run("closed voting returns forbidden", func(t *testing.T) {
		ts.DB.Truncate(t)
		category := testutil.SeedCategory(t, ts.DB.DB, "Best Picture", 2)
		client := newClient(t)
		signIn(t, ts, client, "closed-voter@x.com")

		resp, _ := postJSON(t, client, ts.APIURL("/vote/"), map[string]any{
			"votes": []map[string]string{
				{"categoryId": category.ID.String(), "nomineeId": category.Nominees[0].ID.String()},
			},
		}, voteMarker())
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCategoryEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)
	testutil.SeedCategory(t, ts.DB.DB, "Best Picture", 3)
	testutil.SeedCategory(t, ts.DB.DB, "Best Score", 2)

	// Reference data is readable without a session.
	client := newClient(t)
	resp, body := getJSON(t, client, ts.APIURL("/categories"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Contains(t, first, "nominees")
}

func TestAdminEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ts := testutil.NewTestServer(t)

	t.Run("settings are admin only", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)
		signIn(t, ts, client, "plain-voter@x.com")

		resp, _ := getJSON(t, client, ts.APIURL("/admin/settings"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin updates the voting window", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)
		signIn(t, ts, client, "admin@example.com")

		req, err := http.NewRequest(http.MethodPut, ts.APIURL("/admin/settings"), jsonBody(t, map[string]any{
			"votingOpen": true,
		}))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		body := decodeBody(t, resp)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		settings := body["data"].(map[string]any)
		assert.Equal(t, true, settings["votingOpen"])
	})
}
