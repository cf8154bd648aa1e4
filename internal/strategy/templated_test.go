package strategy

import (
	"testing"

	"github.com/eugener/gandalf/internal/routepath"
)

func TestAzureOpenAIRewrite(t *testing.T) {
	t.Parallel()

	s := NewAzure("azure-openai")
	p := routepath.Parse("/azure-openai/myres/mydep/chat/completions", "api-version=2024-02-01")
	d := s.Route(p)
	if !d.OK {
		t.Fatalf("Route failed: %s", d.Error)
	}
	if d.Host != "myres.openai.azure.com" {
		t.Fatalf("Host = %q", d.Host)
	}
	want := []string{"openai", "deployments", "mydep", "chat", "completions"}
	if len(d.TargetSegments) != len(want) {
		t.Fatalf("TargetSegments = %v, want %v", d.TargetSegments, want)
	}
	for i := range want {
		if d.TargetSegments[i] != want[i] {
			t.Fatalf("TargetSegments = %v, want %v", d.TargetSegments, want)
		}
	}
	if d.Query != "api-version=2024-02-01" {
		t.Fatalf("Query = %q", d.Query)
	}
	if d.Metadata["ResourceName"] != "myres" || d.Metadata["DeploymentName"] != "mydep" {
		t.Fatalf("Metadata = %v", d.Metadata)
	}
}

func TestAzureOpenAIMissingSegments(t *testing.T) {
	t.Parallel()

	s := NewAzure("azure-openai")
	d := s.Route(routepath.Parse("/azure-openai/onlyresource", ""))
	if d.OK {
		t.Fatal("expected failure for missing deployment segment")
	}
}

func TestVertexAIRewrite(t *testing.T) {
	t.Parallel()

	s := NewVertexAI("google-vertex-ai")
	p := routepath.Parse("/google-vertex-ai/projects/my-proj/locations/us-central1/publishers/google/models/gemini-pro:predict", "")
	d := s.Route(p)
	if !d.OK {
		t.Fatalf("Route failed: %s", d.Error)
	}
	if d.Host != "us-central1-aiplatform.googleapis.com" {
		t.Fatalf("Host = %q", d.Host)
	}
	want := []string{"v1", "projects", "my-proj", "locations", "us-central1", "publishers", "google", "models", "gemini-pro:predict"}
	if len(d.TargetSegments) != len(want) {
		t.Fatalf("TargetSegments = %v, want %v", d.TargetSegments, want)
	}
}

func TestResultBuilderMetadataMerge(t *testing.T) {
	t.Parallel()

	d := Success("openai", "", "api.openai.com", nil, "", nil, map[string]string{"Provider": "overridden", "Extra": "1"})
	if d.Metadata["Provider"] != "overridden" {
		t.Fatalf("caller metadata should win on collision, got %q", d.Metadata["Provider"])
	}
	if d.Metadata["Extra"] != "1" {
		t.Fatalf("expected merged metadata key Extra")
	}
}
