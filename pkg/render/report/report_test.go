package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/place"
	"github.com/stormlabel/stormlabel/pkg/plan"
)

func testPlan(t *testing.T) *plan.Document {
	t.Helper()

	clusters := []place.Cluster{
		{
			ID:         0,
			Points:     []geo.Point{{X: -80.3, Y: 25.5}},
			Labels:     []string{"ANDREW (1992)"},
			Categories: []int{5},
		},
		{
			ID:         1,
			Points:     []geo.Point{{X: -85.3, Y: 29.9}},
			Labels:     []string{"MICHAEL (2018)"},
			Categories: []int{5},
		},
	}
	opts := place.DefaultOptions()
	result, err := place.Run(clusters, opts)
	require.NoError(t, err)
	return plan.New(plan.ConfigFrom(opts), clusters, result)
}

func TestRenderProducesHTML(t *testing.T) {
	doc := testPlan(t)

	var buf bytes.Buffer
	require.NoError(t, Render(doc, &buf))

	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "output should be an HTML page")
	assert.Contains(t, html, "ANDREW (1992)")
	assert.Contains(t, html, doc.RunID)
}

func TestRenderRejectsNil(t *testing.T) {
	var buf bytes.Buffer
	err := Render(nil, &buf)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	doc := testPlan(t)
	doc.Result = nil
	err = Render(doc, &buf)
	require.Error(t, err)
}

func TestRenderFile(t *testing.T) {
	doc := testPlan(t)
	path := t.TempDir() + "/report.html"

	require.NoError(t, RenderFile(doc, path))
	assert.FileExists(t, path)
}
