package swagger

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/product-catalog/api-contract"
)

const (
	UIPath       = "/docs"
	YAMLSpecPath = "/docs/openapi.yml"
	JSONSpecPath = "/docs/openapi.json"
)

// Register serves the Swagger UI together with the contract, both as the
// embedded YAML source and as JSON rendered from doc.
func Register(r chi.Router, doc *openapi3.T) error {
	jsonSpec, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	r.Get(UIPath, staticHandler("text/html; charset=utf-8", []byte(uiPage(JSONSpecPath, doc.Info.Title))))
	r.Get(YAMLSpecPath, staticHandler("application/yaml", apicontract.GetSpecBytes()))
	r.Get(JSONSpecPath, staticHandler("application/json", jsonSpec))

	return nil
}

func staticHandler(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

func uiPage(specPath, title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      displayOperationId: true,
      tryItOutEnabled: true,
    });
  };
</script>
</body>
</html>
`, title, specPath)
}
