package usecase

import "fmt"

// analysisPrompt returns the instructional text sent alongside the image.
// The model must answer with ONLY JSON matching the suggestion schema; the
// recovery pipeline handles the cases where it does not comply.
func analysisPrompt(hint string) string {
	prompt := `You are a shopping assistant. Analyze the product shown in the image and suggest products a shopper would want next.

Respond with a single JSON object and nothing else. No prose, no markdown, no code fences. Required format:

{
  "analysisText": string,          // 2-3 sentences describing the pictured product
  "similarItems": [Product],       // 3-5 products similar to the pictured one
  "complementaryItems": [Product]  // 3-5 products that pair well with it
}

Each Product has exactly these fields:
{
  "id": string,          // short unique identifier within this response
  "name": string,
  "description": string, // one sentence
  "price": string,       // display price, e.g. "$24.99"
  "imageUrl": string,    // representative image URL, may be empty
  "category": string
}

Rules:
1. The response must start with '{' and end with '}'.
2. Both item arrays must be present, even if empty.
3. Do not invent fields beyond the schema above.`

	if hint != "" {
		prompt += fmt.Sprintf("\n\nThe shopper added this note about what they are looking for: %q. Weight your suggestions accordingly.", hint)
	}

	return prompt
}

// chatSystemInstruction seeds the follow-up conversation with the analysis
// context. Chat replies are plain display text, not JSON.
func chatSystemInstruction(analysisText string) string {
	instruction := `You are a friendly shopping assistant continuing a conversation about a product the user photographed. Answer follow-up questions about the suggested products, alternatives, and styling in short, conversational plain text. Do not answer in JSON.`

	if analysisText != "" {
		instruction += fmt.Sprintf("\n\nContext from the image analysis: %s", analysisText)
	}

	return instruction
}
