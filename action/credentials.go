package action

// Credentials are the deploy tool endpoint and key for one request.
type Credentials struct {
	APIHost string
	Auth    string
}

// ResolveCredentials merges the request's explicit values with the environment.
// Each field takes the request value when non-empty, else the environment value.
// Nothing is validated here; empty values reach the deploy tool as they are.
func ResolveCredentials(req Request, env Environment) Credentials {
	return Credentials{
		APIHost: firstNonEmpty(req.WskAPIHost, env.APIHost),
		Auth:    firstNonEmpty(req.WskAuth, env.APIKey),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
