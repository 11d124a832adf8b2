package command

import "strings"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command, with spacing preserved
	// for say-style commands.
	RawArgs string
}

// Parse splits a text line into a command word and arguments. A leading
// apostrophe is treated as the say alias so 'hello parses like say hello.
//
// Postcondition: Returns a ParseResult; Command is empty for blank input.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}
	if len(line) > 1 && line[0] == '\'' {
		line = "' " + line[1:]
	}

	word, rest, found := strings.Cut(line, " ")
	res := ParseResult{Command: strings.ToLower(word)}
	if !found {
		return res
	}
	res.RawArgs = strings.TrimSpace(rest)
	if res.RawArgs != "" {
		res.Args = strings.Fields(res.RawArgs)
	}
	return res
}
