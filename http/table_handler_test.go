package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-desk/domain"
)

func TestLoansPage_RendersRecords(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/loans", false)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "LN-001")
	assert.Contains(t, body, "Sarah Johnson")
	assert.Contains(t, body, "$750,000")
	assert.Contains(t, body, "status-rejected")
	assert.NotContains(t, body, `aria-modal="true"`)
	assert.NotEmpty(t, resp.Cookies())
}

func TestRoot_RedirectsToLoans(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/", false)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/loans", resp.Header.Get("Location"))
}

func TestSelectRow_OpensPrefilledModal(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm(t, "/loans/LN-002/select", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[stateResponse](t, resp)
	assert.Equal(t, "LN-002", state.Table.SelectedID)
	require.NotNil(t, state.Table.Form)
	assert.True(t, state.Table.Form.Modal)
	assert.Equal(t, "Sarah", state.Table.Form.Values[domain.FieldFirstName])
	assert.Equal(t, "750000", state.Table.Form.Values[domain.FieldLoanAmount])
	assert.Equal(t, domain.StatusPending, state.Table.Form.Values[domain.FieldStatus])

	page := readBody(t, app.get(t, "/loans", false))
	assert.Contains(t, page, `aria-modal="true"`)
	assert.Contains(t, page, `value="sarah.johnson@email.com"`)
}

func TestSelectRow_BrowserGetsRedirect(t *testing.T) {
	app := newTestApp(t)

	resp := app.postBrowser(t, "/loans/LN-001/select", nil)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/loans", resp.Header.Get("Location"))
}

func TestSelectRow_UnknownRecord(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm(t, "/loans/LN-404/select", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCloseModal_OverlayAndButton(t *testing.T) {
	for _, via := range []string{domain.DismissOverlay, domain.DismissButton} {
		t.Run(via, func(t *testing.T) {
			app := newTestApp(t)
			app.postForm(t, "/loans/LN-002/select", nil)

			resp := app.postForm(t, "/loans/close", url.Values{"via": {via}})

			require.Equal(t, http.StatusOK, resp.StatusCode)
			state := decode[stateResponse](t, resp)
			assert.Empty(t, state.Table.SelectedID)
			assert.Nil(t, state.Table.Form)

			resp = app.get(t, "/forms/modal", true)
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
		})
	}
}

func TestCloseModal_UnknownDismissal(t *testing.T) {
	app := newTestApp(t)
	app.postForm(t, "/loans/LN-002/select", nil)

	resp := app.postForm(t, "/loans/close", url.Values{"via": {"keyboard"}})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTableState(t *testing.T) {
	app := newTestApp(t)
	app.postForm(t, "/loans/LN-004/select", nil)

	resp := app.get(t, "/loans/state", true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[struct {
		Records []domain.Record   `json:"records"`
		Table   domain.TableState `json:"table"`
	}](t, resp)
	assert.Len(t, state.Records, 4)
	assert.Equal(t, "LN-004", state.Table.SelectedID)
}
