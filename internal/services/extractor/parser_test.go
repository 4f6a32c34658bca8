package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/models"
)

func testDefinition() *models.SourceDefinition {
	return &models.SourceDefinition{
		Name:            "Emol",
		ListingURL:      "https://www.emol.com/noticias/",
		BaseURL:         "https://www.emol.com",
		LinkSelector:    "div.headline",
		ContentSelector: "div#article-body",
	}
}

func TestParseListing(t *testing.T) {
	html := `<html><body>
		<div class="headline"><h2><a href="/noticias/politica/2026/08/30/eleccion.html">Resultados de la elección</a></h2></div>
		<div class="headline"><a href="https://www.emol.com/noticias/economia/ipc.html">IPC de agosto</a></div>
		<div class="headline"><span>No link here</span></div>
	</body></html>`

	parser := NewParser(arbor.NewLogger())
	candidates, err := parser.ParseListing(html, testDefinition())
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Resultados de la elección", candidates[0].Title)
	assert.Equal(t, "https://www.emol.com/noticias/politica/2026/08/30/eleccion.html", candidates[0].URL, "relative hrefs resolve against the base URL")
	assert.Equal(t, "IPC de agosto", candidates[1].Title)
}

func TestParseListing_SelectorIsAnchor(t *testing.T) {
	html := `<html><body>
		<a class="card" href="/story/one">Story One</a>
		<a class="card" href="/story/two">Story Two</a>
	</body></html>`

	def := testDefinition()
	def.LinkSelector = "a.card"

	parser := NewParser(arbor.NewLogger())
	candidates, err := parser.ParseListing(html, def)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "https://www.emol.com/story/one", candidates[0].URL)
}

func TestParseListing_DuplicateLinks(t *testing.T) {
	html := `<html><body>
		<div class="headline"><a href="/story/one">First mention</a></div>
		<div class="headline"><a href="/story/one/">Second mention</a></div>
	</body></html>`

	parser := NewParser(arbor.NewLogger())
	candidates, err := parser.ParseListing(html, testDefinition())
	require.NoError(t, err)
	require.Len(t, candidates, 1, "trailing-slash variants collapse to one candidate")
	assert.Equal(t, "First mention", candidates[0].Title)
}

func TestParseListing_NoMatches(t *testing.T) {
	html := `<html><body><p>Nothing newsworthy</p></body></html>`

	parser := NewParser(arbor.NewLogger())
	candidates, err := parser.ParseListing(html, testDefinition())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestParseArticle(t *testing.T) {
	html := `<html><body>
		<div id="article-body">
			<p>El conteo finalizó <strong>anoche</strong>.</p>
			<script>trackPageView();</script>
			<p>La participación alcanzó el 85%.</p>
		</div>
	</body></html>`

	parser := NewParser(arbor.NewLogger())
	content, err := parser.ParseArticle(html, testDefinition())
	require.NoError(t, err)

	assert.Contains(t, content, "El conteo finalizó")
	assert.Contains(t, content, "**anoche**", "markup converts to markdown")
	assert.Contains(t, content, "85%")
	assert.NotContains(t, content, "trackPageView", "script bodies are stripped")
}

func TestParseArticle_SelectorMiss(t *testing.T) {
	html := `<html><body><div class="unrelated">Layout changed</div></body></html>`

	parser := NewParser(arbor.NewLogger())
	content, err := parser.ParseArticle(html, testDefinition())
	require.NoError(t, err, "a selector miss is a skip, not a failure")
	assert.Empty(t, content)
}

func TestParseArticle_EmptyBody(t *testing.T) {
	html := `<html><body><div id="article-body">   </div></body></html>`

	parser := NewParser(arbor.NewLogger())
	content, err := parser.ParseArticle(html, testDefinition())
	require.NoError(t, err)
	assert.Empty(t, content)
}
