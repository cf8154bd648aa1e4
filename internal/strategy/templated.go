package strategy

import gateway "github.com/eugener/gandalf/internal"

// Bedrock implements the AWS Bedrock templated strategy:
// /aws-bedrock/{runtime}/{region}/... -> host = {runtime}.{region}.amazonaws.com
type Bedrock struct{ name string }

// NewBedrock returns the AWS Bedrock templated strategy.
func NewBedrock(name string) Bedrock { return Bedrock{name: name} }

func (b Bedrock) Name() string { return b.name }

func (b Bedrock) Route(p gateway.ParsedPath) gateway.RouteDecision {
	rest := p.Rest()
	if len(rest) < 2 {
		return Failure(b.name + ": requires at least runtime and region")
	}
	runtime, region := rest[0], rest[1]
	host := runtime + "." + region + ".amazonaws.com"
	meta := map[string]string{"Runtime": runtime, "Region": region}
	return Success(b.name, "", host, rest[2:], p.Query, nil, meta)
}

// Azure implements the Azure OpenAI templated strategy:
// /azure-openai/{resource}/{deployment}/... ->
//
//	host = {resource}.openai.azure.com
//	targetSegments = ["openai","deployments",deployment] ++ rest[2:]
type Azure struct{ name string }

// NewAzure returns the Azure OpenAI templated strategy.
func NewAzure(name string) Azure { return Azure{name: name} }

func (a Azure) Name() string { return a.name }

func (a Azure) Route(p gateway.ParsedPath) gateway.RouteDecision {
	rest := p.Rest()
	if len(rest) < 2 {
		return Failure(a.name + ": requires at least resource and deployment")
	}
	resource, deployment := rest[0], rest[1]
	host := resource + ".openai.azure.com"
	segs := make([]string, 0, 3+len(rest)-2)
	segs = append(segs, "openai", "deployments", deployment)
	segs = append(segs, rest[2:]...)
	meta := map[string]string{"ResourceName": resource, "DeploymentName": deployment}
	return Success(a.name, "", host, segs, p.Query, nil, meta)
}

// VertexAI implements the Google Vertex AI templated strategy:
// /google-vertex-ai/projects/{projectId}/locations/{location}/... ->
//
//	host = {location}-aiplatform.googleapis.com
//	targetSegments = ["v1","projects",projectId,"locations",location] ++ rest[4:]
type VertexAI struct{ name string }

// NewVertexAI returns the Google Vertex AI templated strategy.
func NewVertexAI(name string) VertexAI { return VertexAI{name: name} }

func (v VertexAI) Name() string { return v.name }

func (v VertexAI) Route(p gateway.ParsedPath) gateway.RouteDecision {
	rest := p.Rest()
	if len(rest) < 4 {
		return Failure(v.name + ": requires projects/{id}/locations/{location} and beyond")
	}
	// rest = ["projects", projectId, "locations", location, ...]
	projectID, location := rest[1], rest[3]
	host := location + "-aiplatform.googleapis.com"
	segs := make([]string, 0, 5+len(rest)-4)
	segs = append(segs, "v1", "projects", projectID, "locations", location)
	segs = append(segs, rest[4:]...)
	meta := map[string]string{"ProjectID": projectID, "Location": location}
	return Success(v.name, "", host, segs, p.Query, nil, meta)
}
