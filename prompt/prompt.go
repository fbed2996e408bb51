package prompt

type PromptType uint

const (
	BooleanType            PromptType = iota
	CritiqueType           PromptType = iota
	VerdictExtractionType  PromptType = iota
	RouterType             PromptType = iota
	PersonaType            PromptType = iota
	AggregatorType         PromptType = iota
	IdentifyGoalType       PromptType = iota
	GoalAchievedType       PromptType = iota
	PlanType               PromptType = iota
	SubtaskExtractionType  PromptType = iota
	SubtaskExecutionType   PromptType = iota
	SynthesisType          PromptType = iota
	TeamTurnType           PromptType = iota
	TeamConvergedType      PromptType = iota
	TeamSynthesisType      PromptType = iota
)

var (
	defaultPromptMap PromptMap = map[PromptType]Prompt{
		BooleanType:           PromptExtractBoolean,
		CritiqueType:          PromptCritique,
		VerdictExtractionType: PromptVerdictExtraction,
		RouterType:            PromptRouter,
		PersonaType:           PromptPersona,
		AggregatorType:        PromptAggregator,
		IdentifyGoalType:      PromptIdentifyGoal,
		GoalAchievedType:      PromptGoalAchieved,
		PlanType:              PromptPlan,
		SubtaskExtractionType: PromptSubtaskExtraction,
		SubtaskExecutionType:  PromptSubtaskExecution,
		SynthesisType:         PromptSynthesis,
		TeamTurnType:          PromptTeamTurn,
		TeamConvergedType:     PromptTeamConverged,
		TeamSynthesisType:     PromptTeamSynthesis,
	}

	PromptExtractBoolean = NewPrompt(`You are an AI assistant that extracts booleans (yes or no) from a context.

Context:
{{.Context}}

You will use the "json" tool with the option "extract_boolean" set to either yes or no.
Reply with the appropriate boolean extraction tool with yes or no, based on the context.
If the context speaks about, let's say doing something, you will reply with yes, or a no otherwise.`)

	PromptCritique = NewPrompt(`You are a strict reviewer. Examine the latest assistant answer for correctness, completeness and quality.

The answer was produced for the following task:
{{.Task}}

Answer under review:
{{.Answer}}

{{if ne .AdditionalContext ""}}
Additional Context:
{{.AdditionalContext}}
{{end}}

If the answer fully satisfies the task, say it is approved and why.
Otherwise provide specific, actionable feedback on what must be improved. Do not rewrite the answer yourself.`)

	PromptVerdictExtraction = NewPrompt(`Extract the verdict of the review above by using the "json" tool.
Set "approved" to true only if the review approves the answer as-is, and carry over the improvement feedback (empty if approved).`)

	PromptRouter = NewPrompt(`You are an AI assistant that routes a conversation to the most appropriate handler.

Conversation:
{{.Context}}

Available routes:
{{ range $index, $route := .Routes }}
- Route name: "{{$route.Name}}"
  Route description: {{$route.Description}}
{{ end }}

Pick the single route that best matches the conversation and justify your choice with a short reasoning.`)

	PromptPersona = NewPrompt(`You are an AI assistant that helps a {{.Persona}}.
You will produce a concise response to the task below from the point of view of a {{.Persona}}.

Task:
{{.Task}}`)

	PromptAggregator = NewPrompt(`You are given responses to the same task produced by different contributors.
Combine them into a single, well-structured response that keeps every contributor's relevant points.

Task:
{{.Task}}

{{ range $index, $branch := .Branches }}
Response from {{$branch.Name}}:
{{$branch.Output}}

{{ end }}`)

	PromptIdentifyGoal = NewPrompt(
		`Analyze the following text and the context to identify the goal.
Context:
{{.Context}}

{{if ne .AdditionalContext ""}}
AdditionalContext:
{{.AdditionalContext}}
{{end}}
`,
	)

	PromptGoalAchieved = NewPrompt(`You are an AI assistant that determines if a goal has been achieved based on the provided conversation.

{{if ne .Goal ""}}
Overall Goal: {{.Goal}}
{{end}}

Conversation:
{{.Context}}

{{if ne .AdditionalContext ""}}
Additional Context:
{{.AdditionalContext}}
{{end}}

Identify from the context if the goal has been achieved, answer with yes or no and justify your answer with a reasoning.`)

	PromptPlan = NewPrompt(`You are an AI assistant that breaks down a goal into a series of actionable steps (subtasks).

Goal: {{.Goal}}

Context:
{{.Context}}

{{if ne .AdditionalContext ""}}
AdditionalContext:
{{.AdditionalContext}}
{{end}}

Available tools:
{{ range $index, $tool := .Tools }}
- Tool name: "{{$tool.Name}}"
  Tool description: {{$tool.Description}}
  Tool arguments: {{$tool.Parameters | toJson}}
{{ end }}

Based on the goal, context, and available tools, create a detailed plan with clear and actionable steps (subtasks) to achieve the goal.
Steps that depend on the outcome of earlier steps should say so explicitly; independent steps should be marked as such, they can run side by side.
If a tool is relevant to a subtask, mention it explicitly in the step description and how it should be used.`)

	PromptSubtaskExtraction = NewPrompt(`You are an AI assistant that extracts subtasks from a plan to achieve a specific goal.
Context:

{{.Context}}

Use the "json" tool to return the list of subtasks to execute from the given context.
Each subtask should have a short unique id, a description of what to do (for instance "do a research about guinea pigs", be as descriptive as possible),
and the list of ids of the subtasks that must be completed before it can start (empty if it can start right away).`)

	PromptSubtaskExecution = NewPrompt(`You are an AI assistant that is executing a goal and a subtask.

Goal: {{.Goal}}

Subtask: {{.Subtask}}

{{if .Completed}}
Results of the subtasks already completed:
{{ range $index, $result := .Completed }}
- {{$result.Subtask}}: {{$result.Result}}
{{ end }}
{{end}}
`)

	PromptSynthesis = NewPrompt(`You are an AI assistant that synthesizes the results of a research plan into one final answer.

Goal: {{.Goal}}

Subtask results:
{{ range $index, $result := .Completed }}
Subtask: {{$result.Subtask}}
Result: {{$result.Result}}

{{ end }}

Combine the subtask results into a single coherent answer that achieves the goal. Do not mention the plan or the subtasks.`)

	PromptTeamTurn = NewPrompt(`You are {{.Name}}, {{.Role}}.
You are collaborating with other participants on the conversation below. Read what has been said so far and contribute your next message.
Be concise, build on the other participants' points, and disagree explicitly when you do.`)

	PromptTeamConverged = NewPrompt(`You are moderating a discussion between several participants.

Discussion so far:
{{.Context}}

Has the discussion converged to an answer the participants agree on? Answer with yes or no and justify your answer.`)

	PromptTeamSynthesis = NewPrompt(`You are moderating a discussion between several participants.

Discussion:
{{.Context}}

Write the final answer the discussion arrived at, as a single coherent response. Do not mention the participants or the discussion itself.`)
)
