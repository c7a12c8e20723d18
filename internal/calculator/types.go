package calculator

// CalcRequest is the JSON body for binary operations (add, subtract,
// multiply, divide). Operands are decimal or scientific-notation strings so
// no precision is lost in transit.
type CalcRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CalcResponse is the JSON response for the binary endpoints. Result carries
// the decimal rendering; Numerator/Denominator carry the exact value.
type CalcResponse struct {
	Operation   string `json:"operation"`
	A           string `json:"a"`
	B           string `json:"b"`
	Result      string `json:"result"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// UnaryRequest is the JSON body for POST /calculator/sqrt.
type UnaryRequest struct {
	Value string `json:"value"`
}

// UnaryResponse is the JSON response for the unary endpoints.
type UnaryResponse struct {
	Operation   string `json:"operation"`
	Value       string `json:"value"`
	Result      string `json:"result"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string `json:"op"`    // "add", "subtract", "multiply", "divide"
	Value string `json:"value"` // the operand applied with the running total
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial string      `json:"initial"` // starting value
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial     string        `json:"initial"`
	Steps       []ChainResult `json:"steps"`
	Result      string        `json:"result"`
	Numerator   string        `json:"numerator"`
	Denominator string        `json:"denominator"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Op     string `json:"op"`
	Value  string `json:"value"`
	Result string `json:"result"`
}
