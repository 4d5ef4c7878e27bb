package markdown

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tesh254/turncopy/internal/dom"
)

// container parses inner inside a content division and returns that
// division.
func container(t *testing.T, inner string) *html.Node {
	t.Helper()
	doc, err := dom.ParseString(`<div id="content">` + inner + `</div>`)
	require.NoError(t, err)
	n := dom.Query(doc, "#content")
	require.NotNil(t, n)
	return n
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "empty container",
			html: ``,
			want: "",
		},
		{
			name: "only unrecognized divisions and whitespace",
			html: "\n  <div><span>ui chrome</span></div>\n  <div></div>\n",
			want: "",
		},
		{
			name: "bold and italic",
			html: `<p><strong>bold</strong> and <em>x</em></p>`,
			want: "**bold** and *x*",
		},
		{
			name: "link",
			html: `<p><a href="http://e.com"> go </a></p>`,
			want: "[go](http://e.com)",
		},
		{
			name: "heading then paragraph",
			html: `<h1>Title</h1><p>body</p>`,
			want: "# Title\n\nbody",
		},
		{
			name: "headings are flattened to plain text",
			html: `<h2> Setup <em>steps</em> </h2>`,
			want: "## Setup steps",
		},
		{
			name: "top level text is trimmed into its own block",
			html: `  hello  <p>x</p>`,
			want: "hello\n\nx",
		},
		{
			name: "unordered list",
			html: `<ul><li>x</li><li>y</li></ul>`,
			want: "- x\n- y",
		},
		{
			name: "ordered list loses its numbering",
			html: `<ol><li>first</li><li>second</li></ol>`,
			want: "- first\n- second",
		},
		{
			name: "empty list contributes no block",
			html: `<p>a</p><ul></ul><p>b</p>`,
			want: "a\n\nb",
		},
		{
			name: "language label before code block",
			html: `<div><span class="capitalize">Python</span></div><div><pre><code>print(1)
</code></pre></div>`,
			want: "```python\nprint(1)\n```",
		},
		{
			name: "label and code in the same division",
			html: `<div><div><span class="capitalize"> Go </span></div><pre><code>fmt.Println()</code></pre></div>`,
			want: "```go\nfmt.Println()\n```",
		},
		{
			name: "code block without label",
			html: `<div><pre><code>  ls -la  </code></pre></div>`,
			want: "```\nls -la\n```",
		},
		{
			name: "code text is not interpreted",
			html: "<div><pre><code>a **b** `c`</code></pre></div>",
			want: "```\na **b** `c`\n```",
		},
		{
			name: "label survives intervening blocks",
			html: `<div><span class="capitalize">Go</span></div><p>between</p><div><pre><code>x</code></pre></div>`,
			want: "between\n\n```go\nx\n```",
		},
		{
			name: "label is consumed by one code block",
			html: `<div><span class="capitalize">bash</span></div><div><pre><code>a</code></pre></div><div><pre><code>b</code></pre></div>`,
			want: "```bash\na\n```\n\n```\nb\n```",
		},
		{
			name: "trailing label is discarded",
			html: `<p>text</p><div><span class="capitalize">Go</span></div>`,
			want: "text",
		},
		{
			name: "pre without code keeps the pending label",
			html: `<div><span class="capitalize">Go</span><pre>raw</pre></div><div><pre><code>y</code></pre></div>`,
			want: "```go\ny\n```",
		},
		{
			name: "table",
			html: `<div><table class="t-table"><thead><tr><th>A</th><th>B</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table></div>`,
			want: "| A | B |\n| ---------- | ---------- |\n| 1 | 2 |",
		},
		{
			name: "table cells are trimmed text only",
			html: `<div><table class="t-table"><tr><th> <strong>Name</strong> </th></tr><tr><td><code>x</code></td></tr></table></div>`,
			want: "| Name |\n| ---------- |\n| x |",
		},
		{
			name: "table without rows still takes a block",
			html: `<p>a</p><div><table class="t-table"></table></div><p>b</p>`,
			want: "a\n\n\n\nb",
		},
		{
			name: "header row without header cells",
			html: `<div><table class="t-table"><tr><td>1</td></tr></table></div>`,
			want: "|  |\n|  |",
		},
		{
			name: "divider",
			html: `<p>a</p><div class="relative pb-6 w-full after:border-b"></div><p>b</p>`,
			want: "a\n\n---\n\nb",
		},
		{
			name: "divider needs all four classes",
			html: `<div class="relative pb-6 w-full"></div>`,
			want: "",
		},
		{
			name: "table wins over divider",
			html: `<div class="relative pb-6 w-full after:border-b"><table class="t-table"><tr><th>H</th></tr></table></div>`,
			want: "| H |\n| ---------- |",
		},
		{
			name: "unrecognized elements fall back to inline formatting",
			html: `<blockquote>quoted <em>text</em></blockquote><h3>Sub <strong>head</strong></h3>`,
			want: "quoted *text*\n\nSub **head**",
		},
		{
			name: "comments are ignored",
			html: `<!-- note --><p>x</p>`,
			want: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(container(t, tt.html)))
		})
	}
}

func TestFormatNil(t *testing.T) {
	assert.Equal(t, "", Format(nil))
}

func TestFormatIsIdempotent(t *testing.T) {
	n := container(t, `<div><span class="capitalize">Go</span></div><h1>T</h1><div><pre><code>x</code></pre></div><ul><li>a</li></ul>`)

	first := Format(n)
	second := Format(n)

	assert.Equal(t, first, second)
	assert.Equal(t, "```go\nx\n```", Format(container(t, `<div><span class="capitalize">Go</span></div><div><pre><code>x</code></pre></div>`)))
}

func TestFormatConcurrentCalls(t *testing.T) {
	n := container(t, `<h2>H</h2><div><span class="capitalize">Go</span></div><div><pre><code>x</code></pre></div><p>a <em>b</em></p>`)
	want := Format(n)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Format(n)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

// Nested items are found at any depth, so the outer item also carries the
// text of its nested list.
func TestListNestedItems(t *testing.T) {
	n := container(t, `<ul><li>a<ul><li>b</li></ul></li></ul>`)
	assert.Equal(t, "- ab\n- b", Format(n))
}

func TestDescribe(t *testing.T) {
	n := container(t, "<h1>T</h1>\n<div></div><!-- c --><div><span class=\"capitalize\">go</span></div><span>x</span>")

	segs := Describe(n)
	require.Len(t, segs, 4)
	assert.Equal(t, KindHeading1, segs[0].Kind)
	assert.Equal(t, KindContainer, segs[1].Kind)
	assert.Equal(t, KindLanguageLabel, segs[2].Kind)
	assert.Equal(t, "go", segs[2].Label)
	assert.Equal(t, KindGeneric, segs[3].Kind)
}
