// Package masking redacts audit metadata before it is stored.
package masking

import "strings"

const maskToken = "****"

type class int

const (
	plain class = iota
	// secret values keep at most a four character suffix.
	secret
	// contact values (phone, email) keep enough to recognise the patient.
	contact
	// clinical free text is dropped entirely.
	clinical
)

var keyClasses = []struct {
	fragment string
	class    class
}{
	{"password", secret},
	{"token", secret},
	{"secret", secret},
	{"reference", secret},
	{"card", secret},
	{"email", contact},
	{"phone", contact},
	{"diagnosis", clinical},
	{"notes", clinical},
	{"allergies", clinical},
}

// MaskSecret redacts a secret, keeping a prefix up to the last '_' and the last four characters.
func MaskSecret(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	prefix, rest := trimmed, ""
	if i := strings.LastIndexAny(trimmed, "_-"); i >= 0 && i < len(trimmed)-1 {
		prefix, rest = trimmed[:i+1], trimmed[i+1:]
	} else {
		prefix, rest = "", trimmed
	}
	if len(rest) <= 4 {
		return prefix + maskToken
	}
	return prefix + maskToken + rest[len(rest)-4:]
}

// MaskContact keeps the first letter and domain of an email, or the last
// two digits of a phone number.
func MaskContact(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if at := strings.LastIndex(trimmed, "@"); at > 0 {
		return trimmed[:1] + maskToken + trimmed[at:]
	}
	if len(trimmed) <= 2 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-2:]
}

// MaskSensitive returns a masked copy of metadata. Nested maps are masked
// recursively.
func MaskSensitive(input map[string]any) map[string]any {
	masked := make(map[string]any, len(input))
	for key, value := range input {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cls := classify(key)
		if cls == clinical {
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			masked[key] = MaskSensitive(v)
		case string:
			masked[key] = maskString(cls, v)
		default:
			masked[key] = value
		}
	}
	return masked
}

func maskString(cls class, value string) string {
	switch cls {
	case secret:
		return MaskSecret(value)
	case contact:
		return MaskContact(value)
	}
	return value
}

func classify(key string) class {
	key = strings.ToLower(key)
	for _, kc := range keyClasses {
		if strings.Contains(key, kc.fragment) {
			return kc.class
		}
	}
	return plain
}
