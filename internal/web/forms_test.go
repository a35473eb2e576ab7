package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"agcbo/internal/entity/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postedContext(form url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

var testFields = []formField{
	{Name: "title", Kind: kindText, Required: true},
	{Name: "budget_amount", Kind: kindNumber},
	{Name: "category_id", Kind: kindRef},
	{Name: "start_date", Kind: kindDate},
	{Name: "is_public", Kind: kindCheckbox},
	{Name: "password", Kind: kindPassword},
	{Name: "logo", Kind: kindFile},
}

func TestFormPayloadConvertsKinds(t *testing.T) {
	c := postedContext(url.Values{
		"title":         {"  Borehole  "},
		"budget_amount": {"1500.50"},
		"category_id":   {""},
		"start_date":    {"2024-03-01"},
	})

	body, errs, err := formPayload(c, testFields)
	require.NoError(t, err)
	require.Nil(t, errs)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Borehole", payload["title"])
	assert.Equal(t, 1500.5, payload["budget_amount"])
	assert.Contains(t, payload, "category_id")
	assert.Nil(t, payload["category_id"])
	assert.Equal(t, false, payload["is_public"])
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "logo")
	assert.Equal(t, "2024-03-01", payload["start_date"])
}

func TestFormPayloadReportsFieldErrors(t *testing.T) {
	c := postedContext(url.Values{
		"budget_amount": {"lots"},
		"category_id":   {"-3"},
		"start_date":    {"01/03/2024"},
		"is_public":     {"true"},
	})

	body, errs, err := formPayload(c, testFields)
	require.NoError(t, err)
	assert.Nil(t, body)
	assert.Equal(t, map[string]string{
		"title":         "this field is required",
		"budget_amount": "enter a number",
		"category_id":   "enter a whole number",
		"start_date":    "enter a valid date",
	}, errs)
}

func TestPostedValuesEchoesInputWithoutSecrets(t *testing.T) {
	c := postedContext(url.Values{"title": {"Draft"}, "password": {"hunter2"}, "is_public": {"on"}})
	values := postedValues(c, testFields)
	assert.Equal(t, "Draft", values["title"])
	assert.Equal(t, "true", values["is_public"])
	assert.NotContains(t, values, "password")
}

func TestFormValuesFromRecord(t *testing.T) {
	record, err := recordMap(struct {
		Title     string     `json:"title"`
		Budget    float64    `json:"budget_amount"`
		StartDate *db.Date   `json:"start_date"`
		IsPublic  bool       `json:"is_public"`
		Password  string     `json:"password"`
	}{
		Title:     "Borehole",
		Budget:    2500,
		StartDate: datePtr(db.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local))),
		IsPublic:  true,
		Password:  "secret",
	})
	require.NoError(t, err)

	values := formValues(record, testFields)
	assert.Equal(t, "Borehole", values["title"])
	assert.Equal(t, "2500", values["budget_amount"])
	assert.Equal(t, "2024-03-01", values["start_date"])
	assert.Equal(t, "true", values["is_public"])
	assert.NotContains(t, values, "password")
}

func TestCellFormatting(t *testing.T) {
	row := map[string]interface{}{
		"is_public":  true,
		"amount":     float64(1200),
		"status":     "on_hold",
		"start_date": "2024-03-01T00:00:00Z",
		"title":      "Borehole",
	}
	assert.Equal(t, "Yes", cell(row, column{Name: "is_public", Kind: "bool"}))
	assert.Equal(t, "No", cell(row, column{Name: "missing", Kind: "bool"}))
	assert.Equal(t, "1200.00", cell(row, column{Name: "amount", Kind: "money"}))
	assert.Equal(t, "On hold", cell(row, column{Name: "status", Kind: "label"}))
	assert.Equal(t, "1 Mar 2024", cell(row, column{Name: "start_date", Kind: "date"}))
	assert.Equal(t, "Borehole", cell(row, column{Name: "title"}))
	assert.Equal(t, "", cell(row, column{Name: "missing"}))
	assert.Equal(t, "15 Jan 2026", cell(map[string]interface{}{"deadline": "2026-01-15"}, column{Name: "deadline", Kind: "date"}))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/manage/users", safeNext("/manage/users"))
	assert.Equal(t, "", safeNext("https://evil.example"))
	assert.Equal(t, "", safeNext("//evil.example"))
	assert.Equal(t, "", safeNext(`/\evil.example`))
	assert.Equal(t, "", safeNext(""))
}

func TestSortedChoices(t *testing.T) {
	got := sortedChoices([]choice{{"2", "kiambu"}, {"1", "Embu"}, {"3", "Nairobi"}})
	assert.Equal(t, []string{"Embu", "kiambu", "Nairobi"}, []string{got[0].Label, got[1].Label, got[2].Label})
}

func datePtr(d db.Date) *db.Date { return &d }
