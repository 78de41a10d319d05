/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package outline

// Outline represents a parsed lesson outline with one sheet per section.
// The plain-text format is Markdown-like: headings open sheets, labeled
// lines become sheet items.

type Outline struct {
	Sheets []Sheet
}

type Sheet struct {
	Title string
	Lines []Line
}

// LineType indicates the kind of an outline line.
// Labeled:   LABEL: text (label upper-cased; INSTRUCTIONS, CAPTION, ...)
// Note:      lines starting with ";" are author notes and skipped when building
// Exercise:  "Exercise N" or "Task" markers open a numbered exercise
type LineType int

const (
	LineUnknown LineType = iota
	LineLabeled
	LineCaption
	LineNote
	LineExercise
)

// Line captures a single logical line (possibly with continuations) in a
// sheet. For Labeled lines, Label holds the upper-cased label and Text the
// content. For Exercise, Label holds the marker (e.g., "EXERCISE 1") and
// Text the prompt.
type Line struct {
	Type   LineType
	Label  string
	Text   string
	Tags   []string
	LineNo int // 1-based starting line number in the source
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}
