package constant

const (
	ConversationRoleHuman = "Human"
	ConversationRoleAI    = "AI"

	// Answer pipeline statuses
	AnswerStatusSuccess = "success"
	AnswerStatusBlocked = "blocked"
	AnswerStatusError   = "error"

	// Sentinel results produced by the structured-query path. Downstream
	// behavior keys off these exact strings, so they must not change.
	ResultNoQueryFound   = "No SQL query found in the response."
	ResultInvalidQuery   = "Invalid SQL query generated by the LLM."
	ResultGraphGenerated = "Graph has been generated and stored"

	// Fixed reply mandated by the answer prompt when the result is the graph
	// sentinel. The wording (including the grammar slip) is the observed
	// behavior of the system and is kept verbatim.
	GraphFixedReply = "Here's is the graph you asked for."

	// Fixed refusal returned when the sensitive-query guard flags a question.
	GuardRefusalReply = "I cannot help with that request."
)

// GraphIntentKeywords marks a question as a visualization request when any of
// them occurs in the lowercased text.
var GraphIntentKeywords = []string{"graph", "plot", "chart", "visualize"}

// DefaultDatabaseDescription describes the demo employees schema handed to the
// SQL-generation prompt. Deployments override it via DB_SCHEMA_DESCRIPTION.
const DefaultDatabaseDescription = "The database consists of two tables: `public.employees_table` and `public.departments_table`. This is a PostgreSQL database, so you need to use postgres-related queries.\n\n" +
	"The `public.employees_table` table records details about the employees in a company. It includes the following columns:\n" +
	"- `EmployeeID`: A unique identifier for each employee.\n" +
	"- `FirstName`: The first name of the employee.\n" +
	"- `LastName`: The last name of the employee.\n" +
	"- `DepartmentID`: A foreign key that links the employee to a department in the `public.departments_table` table.\n" +
	"- `Salary`: The salary of the employee.\n\n" +
	"The `public.departments_table` table contains information about the various departments in the company. It includes:\n" +
	"- `DepartmentID`: A unique identifier for each department.\n" +
	"- `DepartmentName`: The name of the department.\n" +
	"- `Location`: The location of the department.\n\n" +
	"The `DepartmentID` column in the `public.employees_table` table establishes a relationship between the employees and their respective departments in the `public.departments_table` table. This foreign key relationship allows us to join these tables to retrieve detailed information about employees and their departments."
