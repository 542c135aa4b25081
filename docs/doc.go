// Package docs provides generated OpenAPI documentation.
//
// hastd API
//
//	@title			hastd API
//	@version		1.0
//	@description	Schema-driven structured data extraction from documents with per-field validation and correction.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/hastd
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/hastd/serve.go -o ./swagger --parseDependency --parseInternal --outputTypes go
