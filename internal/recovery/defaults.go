package recovery

import "fmt"

// Default returns a registry preloaded with the built-in rules.
func Default() *Registry {
	r := New(DefaultMaxPatterns)

	r.MustRegister(`reference "([^"]+)" not found in section "([^"]+)"`, "", func(m []string) Suggestion {
		return Suggestion{
			Message: fmt.Sprintf("Declare %q in the %s section of the document, or create it on the remote first", m[1], m[2]),
			Action:  "Identifiers are matched exactly and case-sensitively",
		}
	})
	r.MustRegister(`not found`, "i", func([]string) Suggestion {
		return Suggestion{
			Message: "Check that the entity exists on the remote and that its identifier is spelled exactly",
		}
	})
	r.MustRegister(`permission|forbidden|unauthori[sz]ed|access denied`, "i", func([]string) Suggestion {
		return Suggestion{
			Message: "Check that the credentials used by the transport may manage this kind of entity",
		}
	})
	r.MustRegister(`already exists|unique|duplicate`, "i", func([]string) Suggestion {
		return Suggestion{
			Message: "Another entity already uses this identifier",
			Action:  "Rename the entity in the document or remove the conflicting remote entity",
		}
	})
	r.MustRegister(`(\w+) is required|required field`, "i", func(m []string) Suggestion {
		if m[1] != "" {
			return Suggestion{Message: fmt.Sprintf("Add the required field %q to the entity", m[1])}
		}
		return Suggestion{Message: "Add the missing required field to the entity"}
	})
	r.MustRegister(`invalid currency|currency code`, "i", func([]string) Suggestion {
		return Suggestion{Message: "Use a three-letter ISO 4217 currency code, e.g. USD"}
	})
	r.MustRegister(`invalid country|country code`, "i", func([]string) Suggestion {
		return Suggestion{Message: "Use a two-letter ISO 3166-1 country code, e.g. US"}
	})
	r.MustRegister(`inputType|entityType|values are required`, "", func([]string) Suggestion {
		return Suggestion{
			Message: "Check the attribute's inputType and the fields that input type requires",
			Action:  "Choice attributes need values; REFERENCE attributes need entityType",
		}
	})
	r.MustRegister(`timeout|deadline exceeded|connection refused|no such host|unexpected EOF`, "i", func([]string) Suggestion {
		return Suggestion{
			Message: "The remote service could not be reached in time",
			Action:  "Check connectivity and re-run; entities already applied will be reported unchanged",
		}
	})
	r.MustRegister(`rate limit|too many requests`, "i", func([]string) Suggestion {
		return Suggestion{Message: "The remote service is throttling requests; wait and re-run"}
	})
	r.MustRegister(`context canceled`, "", func([]string) Suggestion {
		return Suggestion{Message: "The run was cancelled before this entity was applied; re-run to continue"}
	})

	return r
}
