// Package parser turns the line-oriented stabilizer-circuit program text
// into the instruction tree defined by qc/stab/ir. It is a thin,
// line-by-line tokenizer: no semantic validation of gate names or target
// kinds happens here, only the structural syntax described in the
// program-text grammar (comments, REPEAT blocks, target token forms).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clifford-labs/stabsim/qc/stab/ir"
)

// SyntaxError reports a malformed line, with its 1-based line number and
// the offending text, so callers can surface precise diagnostics.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: line %d: %s", e.Line, e.Text)
}

func syntaxErr(line int, format string, args ...interface{}) error {
	return &SyntaxError{Line: line, Text: fmt.Sprintf(format, args...)}
}

// frame accumulates instructions for one nesting level of REPEAT blocks.
type frame struct {
	count uint64 // repeat count for this frame; 0 for the implicit root frame
	body  []ir.Instr
}

// Parse tokenizes program text into an instruction tree. Blank lines and
// `#`-to-end-of-line comments are ignored. REPEAT N { ... } blocks nest;
// a line containing only `}` closes the innermost open block.
func Parse(input string) ([]ir.Instr, error) {
	stack := []frame{{}}

	lines := strings.Split(input, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "}" {
			if len(stack) == 1 {
				return nil, syntaxErr(lineNo, "unmatched }")
			}
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if closed.count == 0 {
				return nil, syntaxErr(lineNo, "REPEAT 0 not allowed")
			}
			top := &stack[len(stack)-1]
			top.body = append(top.body, ir.RepeatBlock(closed.count, closed.body))
			continue
		}

		isBlockStart := false
		if strings.HasSuffix(line, "{") {
			isBlockStart = true
			line = strings.TrimSpace(strings.TrimSuffix(line, "{"))
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, syntaxErr(lineNo, "empty instruction")
		}
		nameToken := fields[0]
		rest := fields[1:]

		name, args, err := splitNameArgs(nameToken)
		if err != nil {
			return nil, syntaxErr(lineNo, "%v", err)
		}
		name = strings.ToUpper(name)

		if isBlockStart {
			if name != "REPEAT" {
				return nil, syntaxErr(lineNo, "only REPEAT opens a block, got %s", name)
			}
			if len(rest) != 1 {
				return nil, syntaxErr(lineNo, "REPEAT requires exactly one count argument")
			}
			count, err := strconv.ParseUint(rest[0], 10, 64)
			if err != nil {
				return nil, syntaxErr(lineNo, "bad repeat count %q", rest[0])
			}
			stack = append(stack, frame{count: count})
			continue
		}

		targets := make([]ir.Target, 0, len(rest))
		for _, tok := range rest {
			t, err := parseTarget(tok)
			if err != nil {
				return nil, syntaxErr(lineNo, "%v", err)
			}
			targets = append(targets, t)
		}

		top := &stack[len(stack)-1]
		top.body = append(top.body, ir.Op(name, args, targets))
	}

	if len(stack) != 1 {
		return nil, syntaxErr(len(lines), "unterminated REPEAT block")
	}
	return stack[0].body, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// splitNameArgs splits "NAME(arg,arg,...)" into its name and decimal
// float arguments. A bare "NAME" with no parens returns no arguments.
func splitNameArgs(token string) (string, []float64, error) {
	idx := strings.IndexByte(token, '(')
	if idx < 0 {
		return token, nil, nil
	}
	if !strings.HasSuffix(token, ")") {
		return "", nil, fmt.Errorf("malformed argument list %q", token)
	}
	name := token[:idx]
	inner := strings.TrimSpace(token[idx+1 : len(token)-1])
	if inner == "" {
		return name, nil, nil
	}
	parts := strings.Split(inner, ",")
	args := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad argument %q", p)
		}
		args = append(args, v)
	}
	return name, args, nil
}

// parseTarget recognises the three token forms: a bare non-negative
// integer (qubit), a `!`-prefixed integer (inverted-measurement qubit),
// and `rec[-k]` (k >= 1).
func parseTarget(token string) (ir.Target, error) {
	if strings.HasPrefix(token, "rec[") && strings.HasSuffix(token, "]") {
		inner := token[4 : len(token)-1]
		v, err := strconv.Atoi(inner)
		if err != nil {
			return ir.Target{}, fmt.Errorf("bad rec target %q", token)
		}
		if v >= 0 {
			return ir.Target{}, fmt.Errorf("rec target %q must be negative", token)
		}
		return ir.RecTarget(v), nil
	}

	negated := false
	raw := token
	if strings.HasPrefix(token, "!") {
		negated = true
		raw = token[1:]
	}
	q, err := strconv.Atoi(raw)
	if err != nil || q < 0 {
		return ir.Target{}, fmt.Errorf("unsupported target %q", token)
	}
	if negated {
		return ir.QubitInvTarget(q), nil
	}
	return ir.QubitTarget(q), nil
}
