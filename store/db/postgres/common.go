package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
)

// placeholder returns a positional placeholder for PostgreSQL ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n positional placeholders for PostgreSQL.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

func marshalParticipants(participants []string) (string, error) {
	if participants == nil {
		participants = []string{}
	}
	bytes, err := json.Marshal(participants)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func unmarshalParticipants(raw []byte) ([]string, error) {
	participants := []string{}
	if len(raw) == 0 {
		return participants, nil
	}
	if err := json.Unmarshal(raw, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}
