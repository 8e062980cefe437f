package docs

import "testing"

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title != "Solid Waffle API" {
		t.Fatalf("unexpected title: %s", SwaggerInfo.Title)
	}
	if SwaggerInfo.BasePath != "/" {
		t.Fatalf("unexpected base path: %s", SwaggerInfo.BasePath)
	}
}
