package credentials

import "testing"

func gvizBody(rowsJSON string) []byte {
	return []byte(`/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","status":"ok","table":{"cols":[],"rows":[` + rowsJSON + `]}});`)
}

func TestParseGvizCredentials(t *testing.T) {
	body := gvizBody(`
{"c":[{"v":"Product"},{"v":"Link"},{"v":"ABSG user"},{"v":"ABSG pass"}]},
{"c":[{"v":"PUSSY888"},{"v":"https://portal.example/login"},{"v":"ab-user"},{"v":"ab-pass"},{"v":"wb-user"},{"v":"wb-pass"}]},
{"c":[{"v":"MEGA888"},{"v":"https://mega.example/login"},null,null,{"v":"wb-only"},{"v":"wb-secret"}]}`)

	creds, err := ParseGvizCredentials(body)
	if err != nil {
		t.Fatalf("ParseGvizCredentials: %v", err)
	}

	if len(creds) != 3 {
		t.Fatalf("got %d credentials, want 3", len(creds))
	}

	first := creds[0]
	if first.Provider != "PUSSY888" || first.Brand != "ABSG" || first.Username != "ab-user" || first.Password != "ab-pass" {
		t.Errorf("unexpected first credential: %+v", first)
	}
	if first.LoginURL != "https://portal.example/login" {
		t.Errorf("unexpected login URL: %s", first.LoginURL)
	}

	last := creds[2]
	if last.Provider != "MEGA888" || last.Brand != "WBSG" || last.Username != "wb-only" {
		t.Errorf("unexpected last credential: %+v", last)
	}
}

func TestParseGvizCredentials_SkipsIncompleteRows(t *testing.T) {
	body := gvizBody(`
{"c":[{"v":"Product"},{"v":"Link"}]},
{"c":[{"v":"PUSSY888"},null]},
{"c":[null,{"v":"https://x.example"}]},
{"c":[{"v":"MEGA888"},{"v":"https://mega.example"},{"v":"user-no-pass"},null]}`)

	creds, err := ParseGvizCredentials(body)
	if err != nil {
		t.Fatalf("ParseGvizCredentials: %v", err)
	}
	if len(creds) != 0 {
		t.Errorf("incomplete rows should yield no credentials, got %d", len(creds))
	}
}

func TestParseGvizCredentials_BadWrapper(t *testing.T) {
	if _, err := ParseGvizCredentials([]byte(`<html>rate limited</html>`)); err == nil {
		t.Error("non-gviz body should error")
	}
}
