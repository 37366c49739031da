package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "assistant"
	ChatMessageRoleSystem = "system"

	// DescriptionPlaceholder marks a knowledge base that has no meaningful
	// description yet. Router entries are never written for it.
	DescriptionPlaceholder = "No description yet"

	// DescriptionTemplate renders the synthesized KB description from extracted
	// document metadata: [{doc_type}] {title} - Category: {category} ({status})
	DescriptionTemplate = "[%s] %s - Category: %s (%s)"

	// RoutingMethodSemantic tags chat results that were routed by description similarity.
	RoutingMethodSemantic = "semantic_router"
)

// Default metadata values substituted when AI extraction fails or the first
// page is empty. A description synthesized purely from these defaults is not
// meaningful and collapses to DescriptionPlaceholder.
const (
	DefaultDocType  = "Unknown"
	DefaultCategory = "Unknown"
	DefaultStatus   = "Unknown"
	DefaultTitle    = "N/A"
)

const MetadataExtractorPromptV1 = `You are a document analyst. Read the document excerpt below and extract metadata.

Return ONLY a JSON object with exactly these keys:
- "doc_type": the kind of document (e.g. "Contract", "Medical Report", "Manual", "Invoice")
- "category": the subject domain (e.g. "Legal", "Healthcare", "Finance", "Engineering")
- "status": document status if stated (e.g. "Final", "Draft"), otherwise "Unknown"
- "title": the document title, or a short descriptive title you infer from the content

Do not include explanations, markdown fences, or any text outside the JSON object.

DOCUMENT EXCERPT:
---------------------
%s
---------------------

JSON:`

const AnswerPromptV1 = `We have the following context information:
---------------------
%s
---------------------
Use ONLY this context to answer the question. Do not use prior knowledge.
If the context does not contain the answer, say so honestly.
Always answer politely and helpfully.
Question: %s
Answer: `
