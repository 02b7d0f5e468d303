package config

import (
	"fmt"
	"log"
)

// Required returns an error naming the first env var whose value is empty.
// Values and names come in pairs.
func Required(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i+1].(string)
		switch v := pairs[i].(type) {
		case string:
			if v == "" {
				return fmt.Errorf("missing required env %s", name)
			}
		case []byte:
			if len(v) == 0 {
				return fmt.Errorf("missing required env %s", name)
			}
		default:
			return fmt.Errorf("config: unsupported value for %s: %T", name, v)
		}
	}
	return nil
}

// MustHave stops the process when Required fails.
func MustHave(pairs ...any) {
	if err := Required(pairs...); err != nil {
		log.Fatal(err)
	}
}
