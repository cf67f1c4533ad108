package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultWait  = 5 * time.Second
	pollInterval = 5 * time.Millisecond
)

type brand struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

func TestResource_CRUD(t *testing.T) {
	f := newFixture(t)
	f.service.Seed("product", map[string]any{"name": "Replica Jazz Club"}, map[string]any{"name": "Santal 33"})
	f.login(t)
	ctx := context.Background()
	brands := f.client.Resource("api/brand/")
	assert.Equal(t, "/api/brand", brands.Path())

	created, err := brands.Create(ctx, brand{Name: "Byredo"})
	require.NoError(t, err)
	var item brand
	require.NoError(t, json.Unmarshal(created, &item))
	require.NotEmpty(t, item.ID)

	patched, err := brands.Patch(ctx, item.ID, map[string]string{"country": "SE"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+item.ID+`","name":"Byredo","country":"SE"}`, string(patched))

	updated, err := brands.Update(ctx, item.ID, brand{Name: "Byredo Parfums"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+item.ID+`","name":"Byredo Parfums"}`, string(updated))

	got, err := brands.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(updated), string(got))

	require.NoError(t, brands.Delete(ctx, item.ID))
	_, err = brands.Get(ctx, item.ID)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	page, err := f.client.Resource("/api/product").Search(ctx, url.Values{"name": []string{"santal"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.Contains(t, string(page.Content[0]), "Santal 33")
}

func TestEnvelope(t *testing.T) {
	var testCases = []struct {
		description string
		body        string
		expectCode  int
		expectName  string
	}{
		{description: "server spelling", body: `{"status":200,"message":"ok","result":{"name":"Le Labo"}}`, expectCode: 200, expectName: "Le Labo"},
		{description: "front end spelling", body: `{"statusCode":201,"message":"created","result":{"name":"Byredo"}}`, expectCode: 201, expectName: "Byredo"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			envelope, err := DecodeEnvelope[brand](&Response{Body: []byte(testCase.body)})
			require.NoError(t, err)
			assert.Equal(t, testCase.expectCode, envelope.Code())
			assert.Equal(t, testCase.expectName, envelope.Result.Name)
		})
	}

	_, err := Result[brand](&Response{Body: []byte(`{"status":200,"message":"Login success"}`)})
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestResource_EscapesID(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"status":200,"message":"Success","result":{}}`))
	}))
	defer server.Close()
	cli, err := New(server.URL)
	require.NoError(t, err)
	ctx := context.Background()
	brands := cli.Resource("/api/brand")

	_, err = brands.Get(ctx, "a/b")
	require.NoError(t, err)
	_, err = brands.Update(ctx, "50%", brand{Name: "Byredo"})
	require.NoError(t, err)
	require.NoError(t, brands.Delete(ctx, "x y"))
	assert.Equal(t, []string{
		"GET /api/brand/a%2Fb",
		"PUT /api/brand/50%25",
		"DELETE /api/brand/x%20y",
	}, paths)
}
