package resources

import (
	"fmt"
	"strconv"
	"strings"
)

// Format expands Java-style verbs in tmpl with args.
func Format(tmpl string, args ...string) (string, error) {
	if !strings.ContainsRune(tmpl, '%') {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	next := 0

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(tmpl) {
			return "", fmt.Errorf("%w: trailing %%", ErrInvalidFormatVerb)
		}

		j := i + 1
		switch tmpl[j] {
		case '%':
			b.WriteByte('%')
			i = j
			continue
		case 'n':
			b.WriteByte('\n')
			i = j
			continue
		}

		// optional "<index>$"
		index := -1
		k := j
		for k < len(tmpl) && tmpl[k] >= '0' && tmpl[k] <= '9' {
			k++
		}
		if k > j && k < len(tmpl) && tmpl[k] == '$' {
			n, err := strconv.Atoi(tmpl[j:k])
			if err != nil || n < 1 {
				return "", fmt.Errorf("%w: %q", ErrInvalidFormatVerb, tmpl[i:k+1])
			}
			index = n - 1
			j = k + 1
		}
		if j >= len(tmpl) {
			return "", fmt.Errorf("%w: %q", ErrInvalidFormatVerb, tmpl[i:])
		}

		switch tmpl[j] {
		case 's', 'S', 'd':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidFormatVerb, tmpl[i:j+1])
		}

		if index < 0 {
			index = next
			next++
		}
		if index >= len(args) {
			return "", fmt.Errorf("%w: need argument %d, have %d", ErrMissingArgument, index+1, len(args))
		}
		if tmpl[j] == 'S' {
			b.WriteString(strings.ToUpper(args[index]))
		} else {
			b.WriteString(args[index])
		}
		i = j
	}
	return b.String(), nil
}
