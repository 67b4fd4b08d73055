package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/mari/awards-voting/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newClient returns an http.Client with a cookie jar so the session cookie
// survives across requests, like a browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func jsonBody(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func postJSON(t *testing.T, client *http.Client, url string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, jsonBody(t, body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, client *http.Client, url string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

// signIn runs the OTP flow end to end and leaves the session cookie in the
// client's jar.
func signIn(t *testing.T, ts *testutil.TestServer, client *http.Client, email string) {
	t.Helper()

	resp, _ := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
		"email":  email,
		"method": "otp",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	captured := ts.Sender.WaitOTP(t)
	require.Equal(t, email, captured.To)

	resp, _ = postJSON(t, client, ts.APIURL("/auth/verify"), map[string]string{
		"email": email,
		"otp":   captured.Code,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ts := testutil.NewTestServer(t)

	t.Run("login response does not reveal whether the address is known", func(t *testing.T) {
		ts.DB.Truncate(t)
		testutil.SeedUser(t, ts.DB.DB, "known@x.com", false)

		client := newClient(t)
		_, knownBody := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email": "known@x.com", "method": "otp",
		}, nil)
		_, unknownBody := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email": "stranger@x.com", "method": "otp",
		}, nil)

		assert.Equal(t, knownBody["message"], unknownBody["message"])
		assert.Equal(t, knownBody["success"], unknownBody["success"])
	})

	t.Run("otp flow opens a session", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)
		signIn(t, ts, client, "otp-voter@x.com")

		resp, body := getJSON(t, client, ts.APIURL("/auth/me"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		assert.Equal(t, "otp-voter@x.com", user["email"])
		assert.Equal(t, false, user["isAdmin"])
	})

	t.Run("magic link flow opens a session", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)

		resp, _ := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email": "magic-voter@x.com",
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		captured := ts.Sender.WaitLink(t)
		link, err := url.Parse(captured.Link)
		require.NoError(t, err)
		token := link.Query().Get("token")
		require.NotEmpty(t, token)

		resp, _ = postJSON(t, client, ts.APIURL("/auth/verify"), map[string]string{
			"token": token,
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = getJSON(t, client, ts.APIURL("/auth/me"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong otp is rejected with an opaque message", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)

		resp, _ := postJSON(t, client, ts.APIURL("/auth/login"), map[string]string{
			"email": "wrong-otp@x.com", "method": "otp",
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		ts.Sender.WaitOTP(t)

		resp, body := postJSON(t, client, ts.APIURL("/auth/verify"), map[string]string{
			"email": "wrong-otp@x.com", "otp": "000000",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid or expired verification code", body["error"])
	})

	t.Run("admin address is promoted at login", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)
		signIn(t, ts, client, "admin@example.com")

		resp, body := getJSON(t, client, ts.APIURL("/auth/me"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		assert.Equal(t, true, user["isAdmin"])
	})

	t.Run("logout closes the session", func(t *testing.T) {
		ts.DB.Truncate(t)
		client := newClient(t)
		signIn(t, ts, client, "logout-voter@x.com")

		resp, _ := postJSON(t, client, ts.APIURL("/auth/logout"), map[string]string{}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = getJSON(t, client, ts.APIURL("/auth/me"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me requires a session", func(t *testing.T) {
		client := newClient(t)
		resp, _ := getJSON(t, client, ts.APIURL("/auth/me"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
