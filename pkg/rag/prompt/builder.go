// Package prompt renders the structured prompts submitted to the generation
// model. Each builder is a pure function from template variables to plain
// text; the wording of the instructions is part of the pipeline's observable
// contract (notably the SQLQuery: output format and the fixed graph reply).
package prompt

import (
	"fmt"
	"strings"

	"nexus-rag-be/internal/constant"
)

// BuildRetrievalPrompt embeds retrieved passages as grounding context for a
// document-backed answer.
func BuildRetrievalPrompt(contextText, question string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an AI assistant answering questions from the indexed documents.\n")
	prompt.WriteString("Use the following pieces of context to answer the question at the end.\n")
	prompt.WriteString("If you don't know the answer or the information is not present in the given context, just say that you don't have that information, don't try to make up an answer.\n")
	prompt.WriteString("Provide a concise and accurate answer based solely on the given context.\n\n")

	prompt.WriteString("Context:\n")
	prompt.WriteString(contextText)
	prompt.WriteString("\n\n")

	prompt.WriteString("Question: ")
	prompt.WriteString(question)
	prompt.WriteString("\n\nHelpful Answer:")

	return prompt.String()
}

// BuildClassificationPrompt asks the model to judge whether a candidate answer
// addresses the question. The pipeline accepts when the response contains
// "yes" anywhere, so the instruction asks for a yes/no-leaning verdict.
func BuildClassificationPrompt(question, answer string) string {
	var prompt strings.Builder

	prompt.WriteString("Given the user's question and the assistant's answer, determine whether the assistant's answer addresses the user's question, ")
	prompt.WriteString("it is okay even if the answer is only partially correct, as long as it is not completely empty of any information, ")
	prompt.WriteString("in such cases start your answer with yes, otherwise no.\n\n")

	prompt.WriteString(fmt.Sprintf("Question: %s\n", question))
	prompt.WriteString(fmt.Sprintf("Answer: %s\n", answer))

	return prompt.String()
}

// BuildSQLPrompt asks the model for a PostgreSQL query answering the question,
// given the schema description and the conversation so far. The model is
// instructed to emit the query after the literal SQLQuery: marker, which the
// extract package depends on.
func BuildSQLPrompt(databaseDescription, chatHistory, question string) string {
	var prompt strings.Builder

	prompt.WriteString(databaseDescription)
	prompt.WriteString("\n\n")
	prompt.WriteString(chatHistory)
	prompt.WriteString("\nGiven the above database schema and conversation history, create a syntactically correct SQL query to answer the following question.\n\n")

	prompt.WriteString("- Include all relevant columns in the SELECT statement.\n")
	prompt.WriteString("- Use double quotes around table and column names to preserve case sensitivity.\n")
	prompt.WriteString("- Do not include any backslashes or escape characters in the SQL query.\n")
	prompt.WriteString("- Provide the SQL query as a plain text without any additional formatting or quotes.\n")
	prompt.WriteString("- Ensure that the SQL query is compatible with PostgreSQL.\n")
	prompt.WriteString("- Only use the tables and columns listed in the database schema.\n\n")

	prompt.WriteString(fmt.Sprintf("Question: %s\n\n", question))

	prompt.WriteString("Provide the SQL query in the following format:\n\n")
	prompt.WriteString("SQLQuery:\n")
	prompt.WriteString("SELECT \"Column1\", \"Column2\" FROM \"public\".\"Table\" WHERE \"Condition\";\n\n")
	prompt.WriteString("Now, generate the SQL query to answer the question.\n")

	return prompt.String()
}

// BuildChartSpecPrompt asks the model for a declarative chart description of
// the query result. The response is expected inside a json code fence; the
// extract package falls back to the raw response when no fence is present.
func BuildChartSpecPrompt(queryResult, question string) string {
	var prompt strings.Builder

	prompt.WriteString("Given the following SQL query result and the user's question, describe the chart that answers the question as a JSON object.\n")
	prompt.WriteString("The SQL result is a list of rows; aggregate or reorder the values as the question requires.\n\n")

	prompt.WriteString("SQL Result:\n")
	prompt.WriteString(queryResult)
	prompt.WriteString("\n\n")
	prompt.WriteString(fmt.Sprintf("Question:\n%s\n\n", question))

	prompt.WriteString("Respond with only a JSON object inside a ```json code fence, with no explanations or additional text, using this shape:\n\n")
	prompt.WriteString("```json\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"type\": \"bar\",\n")
	prompt.WriteString("  \"title\": \"Chart title\",\n")
	prompt.WriteString("  \"x_label\": \"X axis\",\n")
	prompt.WriteString("  \"y_label\": \"Y axis\",\n")
	prompt.WriteString("  \"labels\": [\"label1\", \"label2\"],\n")
	prompt.WriteString("  \"series\": [{\"name\": \"series name\", \"values\": [1, 2]}]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("```\n\n")
	prompt.WriteString("\"type\" must be one of: bar, line, pie, scatter. Use proper labels and titles.\n")

	return prompt.String()
}

// BuildAnswerPrompt composes the final natural-language answer from the
// question, the executed query, and its result. When the result equals the
// graph sentinel, the prompt mandates the fixed short reply instead of an
// elaboration.
func BuildAnswerPrompt(databaseDescription, chatHistory, question, query, result string) string {
	var prompt strings.Builder

	prompt.WriteString("Database Description:\n")
	prompt.WriteString(databaseDescription)
	prompt.WriteString("\n\n")
	prompt.WriteString(chatHistory)
	prompt.WriteString("\nGiven the following user question, corresponding SQL query, and SQL result, answer the user question.\n\n")

	prompt.WriteString(fmt.Sprintf("Question: %s\n", question))
	prompt.WriteString(fmt.Sprintf("SQL Query: %s\n", query))
	prompt.WriteString(fmt.Sprintf("SQL Result: %s\n\n", result))

	prompt.WriteString(fmt.Sprintf("If the SQL Result is %q, respond only and only with %q only.\n\n",
		constant.ResultGraphGenerated, constant.GraphFixedReply))
	prompt.WriteString("Otherwise, provide a detailed answer.\n\n")
	prompt.WriteString("Answer:")

	return prompt.String()
}
