package visualizer

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// chainPageHtml embeds a dot graph into a self-contained page; the layout
// runs in the browser via the graphviz wasm build, so the server only ships
// the dot source.
const chainPageHtml = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%[1]s</title>
</head>
<body>
  <h1>%[1]s</h1>
  <div id="chain"></div>
  <script type="module">
    import { Graphviz } from "https://cdn.jsdelivr.net/npm/@hpcc-js/wasm/dist/index.js";
    const graphviz = await Graphviz.load();
    document.getElementById("chain").innerHTML =
      graphviz.layout(%[2]s, "svg", "dot");
  </script>
</body>
</html>
`

// renderDotGraph serializes the graph to dot and wraps it into an HTML page
// with the given title.
func renderDotGraph(title string, g *graphviz.Graphviz, graph *cgraph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := g.Render(graph, "dot", &buf); err != nil {
		return "", err
	}
	return fmt.Sprintf(chainPageHtml, title, "`"+buf.String()+"`"), nil
}
