// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package summarizer

import "fmt"

const systemPrompt = "You are a helpful assistant that creates concise bullet-point summaries."

const userPromptTemplate = `Please summarize the following YouTube video transcript into concise bullet points that capture the main ideas and key information. Focus on the most important concepts, arguments, and takeaways.

Transcript:
%s

Summary (in bullet points):`

// UserPrompt embeds the transcript verbatim into the fixed prompt.
func UserPrompt(transcript string) string {
	return fmt.Sprintf(userPromptTemplate, transcript)
}
