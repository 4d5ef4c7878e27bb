package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/turncopy/internal/dom"
)

func TestInline(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"plain text keeps inner whitespace", `<p>a  b </p>`, "a  b "},
		{"code span", `<p>run <code> go test </code> now</p>`, "run `go test` now"},
		{"b and i are plain wrappers", `<p><b>x</b> <i>y</i></p>`, "x y"},
		{"wrappers are transparent", `<p>see <span>the <code>x</code></span> docs</p>`, "see the `x` docs"},
		{"nested emphasis is flattened", `<p><strong>a <em>b</em></strong></p>`, "**a b**"},
		{"missing href", `<p><a>go</a></p>`, "[go](" + MissingHref + ")"},
		{"empty href", `<p><a href="">go</a></p>`, "[go]()"},
		{"empty element", `<p></p>`, ""},
		{"entities are decoded", `<p>a &amp; b &lt;c&gt;</p>`, "a & b <c>"},
		{"line breaks contribute nothing", `<p>a<br>b</p>`, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dom.ParseString(tt.html)
			require.NoError(t, err)
			p := dom.Query(doc, "p")
			require.NotNil(t, p)
			assert.Equal(t, tt.want, Inline(p))
		})
	}
}

func TestInlineNil(t *testing.T) {
	assert.Equal(t, "", Inline(nil))
}

func TestCodeBlock(t *testing.T) {
	doc, err := dom.ParseString(`<pre id="a"><code>
x := 1
</code></pre><pre id="b">no code</pre>`)
	require.NoError(t, err)

	assert.Equal(t, "```go\nx := 1\n```", CodeBlock(dom.Query(doc, "#a"), "go"))
	assert.Equal(t, "```\nx := 1\n```", CodeBlock(dom.Query(doc, "#a"), ""))
	assert.Equal(t, "", CodeBlock(dom.Query(doc, "#b"), "go"))
}

func TestTableDirect(t *testing.T) {
	doc, err := dom.ParseString(`<table id="t">
<tr><th>Key</th><th>Value</th><th>Note</th></tr>
<tr><td>a</td><td>1</td></tr>
<tr><td>b</td><td>2</td><td>long text here</td></tr>
</table>`)
	require.NoError(t, err)

	want := "| Key | Value | Note |\n" +
		"| ---------- | ---------- | ---------- |\n" +
		"| a | 1 |\n" +
		"| b | 2 | long text here |"
	assert.Equal(t, want, Table(dom.Query(doc, "#t")))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		html string
		want Kind
	}{
		{`<h1>x</h1>`, KindHeading1},
		{`<h2>x</h2>`, KindHeading2},
		{`<p>x</p>`, KindParagraph},
		{`<ul><li>x</li></ul>`, KindList},
		{`<ol><li>x</li></ol>`, KindList},
		{`<div><table class="t-table"></table></div>`, KindTable},
		{`<div><table></table></div>`, KindContainer},
		{`<div class="after:border-b w-full pb-6 relative"></div>`, KindDivider},
		{`<div><span class="capitalize">go</span></div>`, KindLanguageLabel},
		{`<div><span class="capitalize">go</span><pre></pre></div>`, KindCodeBlock},
		{`<div><pre><code>x</code></pre></div>`, KindCodeBlock},
		{`<div>loose text</div>`, KindContainer},
		{`<section>x</section>`, KindGeneric},
		{`<h3>x</h3>`, KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			n := container(t, tt.html)
			require.NotNil(t, n.FirstChild)
			assert.Equal(t, tt.want, Classify(n.FirstChild).Kind, tt.html)
		})
	}
}

func TestClassifyText(t *testing.T) {
	n := container(t, "  \n  ")
	require.NotNil(t, n.FirstChild)
	assert.Equal(t, KindSkip, Classify(n.FirstChild).Kind)

	n = container(t, " words ")
	assert.Equal(t, KindText, Classify(n.FirstChild).Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "code-block", KindCodeBlock.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
