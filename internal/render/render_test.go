package render

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = `<h1 style="color: {{ styles.titleColor }}">{{ title }}</h1><p>{{ content }}</p><footer>{{ footer }}</footer>`

func TestRenderSubstitutesValues(t *testing.T) {
	out, err := New().Render(testLayout, map[string]any{
		"title":   "Hello",
		"content": "World",
		"footer":  "Bye",
		"styles":  map[string]any{"titleColor": "#4F46E5"},
	})
	require.NoError(t, err)

	want := `<h1 style="color: #4F46E5">Hello</h1><p>World</p><footer>Bye</footer>`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("rendered output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMissingValuesAreEmpty(t *testing.T) {
	out, err := New().Render(testLayout, map[string]any{"title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, `<h1 style="color: ">Hello</h1><p></p><footer></footer>`, out)

	out, err = New().Render(testLayout, nil)
	require.NoError(t, err)
	assert.Equal(t, `<h1 style="color: "></h1><p></p><footer></footer>`, out)
}

func TestRenderIsIdempotent(t *testing.T) {
	e := New()
	values := map[string]any{
		"title":   "Hello",
		"content": "World",
		"styles":  map[string]any{"titleColor": "red", "alignment": "center"},
	}
	first, err := e.Render(testLayout, values)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Render(testLayout, values)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderEscapesByDefault(t *testing.T) {
	out, err := New().Render(`<p>{{ content }}</p>`, map[string]any{
		"content": `<script>alert("x")</script>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderAllowHTMLSanitizes(t *testing.T) {
	e := New(WithAllowHTML(nil))
	require.True(t, e.AllowsHTML())

	out, err := e.Render(`<p>{{ content }}</p><i>{{ styles.titleColor }}</i>`, map[string]any{
		"content": `<b>bold</b><script>alert(1)</script>`,
		"styles":  map[string]any{"titleColor": `<b>red</b>`},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "<p><b>bold</b></p>")
	assert.NotContains(t, out, "<script>")
	// Only rich text fields are trusted with markup
	assert.Contains(t, out, "<i>&lt;b&gt;red&lt;/b&gt;</i>")
}

func TestRenderReportsBrokenLayout(t *testing.T) {
	_, err := New().Render(`<p>{{ content </p>`, map[string]any{"content": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse layout")
}

func TestRenderConcurrently(t *testing.T) {
	e := New()
	const renders = 20

	var wg sync.WaitGroup
	outputs := make([]string, renders)
	errs := make([]error, renders)
	for i := 0; i < renders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outputs[i], errs[i] = e.Render(testLayout, map[string]any{
				"title":   fmt.Sprintf("Title %d", i),
				"content": "World",
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < renders; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf(`<h1 style="color: ">Title %d</h1><p>World</p><footer></footer>`, i), outputs[i])
	}
}
