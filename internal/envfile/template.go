package envfile

import "fmt"

// Template synthesizes the placeholder secrets file written when neither a
// secrets file nor an example file exists. The placeholder values match what
// the quiz application's settings module expects to find.
func Template(apiKeyName, modelKeyName, defaultModel string) []byte {
	return []byte(fmt.Sprintf(`# Quiz application secrets. Keep this file out of version control.
%s=your-gemini-api-key-here
%s=%s

# Django settings
DEBUG=True
SECRET_KEY=your-django-secret-key-here
`, apiKeyName, modelKeyName, defaultModel))
}
