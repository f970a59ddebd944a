package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// The helpers below return the fallback when a variable is unset, empty or
// does not parse.

func getenv(key, def string) string {
    if v := strings.TrimSpace(os.Getenv(key)); v != "" {
        return v
    }
    return def
}

func envInt(key string, def int) int {
    n, err := strconv.Atoi(getenv(key, ""))
    if err != nil {
        return def
    }
    return n
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(getenv(key, "")) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    d, err := time.ParseDuration(getenv(key, ""))
    if err != nil {
        return def
    }
    return d
}

// splitList splits a comma separated value and drops blank items.
func splitList(s string) []string {
    out := []string{}
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
