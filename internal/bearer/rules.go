package bearer

import (
	"fmt"
	"strings"
)

// RulesInfo builds the rules catalog text for the bearer_list_rules tool.
// Bearer's rule catalog is documented online; the CLI itself has no
// machine-readable listing command, so this mirrors the documented surface.
func RulesInfo(language string) string {
	var b strings.Builder
	b.WriteString("Bearer Security Rules Information:\n\n")
	b.WriteString("Bearer has 473+ security rules across multiple programming languages:\n")
	b.WriteString("- Ruby\n- JavaScript/TypeScript\n- Java\n- PHP\n- Go\n- Python\n\n")
	b.WriteString("Rules are categorized by:\n")
	b.WriteString("- OWASP Top 10 categories (A01-A10)\n")
	b.WriteString("- CWE (Common Weakness Enumeration) numbers\n")
	b.WriteString("- Language-specific vulnerabilities\n\n")
	b.WriteString("To use specific rules in scans:\n")
	b.WriteString("- Use --only-rule flag: bearer scan --only-rule \"rule_id_1,rule_id_2\" path/\n")
	b.WriteString("- Use --skip-rule flag: bearer scan --skip-rule \"rule_id_1,rule_id_2\" path/\n\n")
	b.WriteString("For the complete list of rules and their descriptions, visit:\n")
	b.WriteString("https://docs.bearer.com/reference/rules/")

	if language != "" {
		lang := strings.ToLower(language)
		b.WriteString(fmt.Sprintf("\n\nLanguage-specific information for %s:\n\n", lang))
		b.WriteString(fmt.Sprintf("To scan only %s files, Bearer automatically detects file types.\n", lang))
		b.WriteString(fmt.Sprintf("Common %s rule categories include:\n", lang))
		b.WriteString("- Code injection vulnerabilities\n")
		b.WriteString("- Authentication/authorization issues\n")
		b.WriteString("- Data exposure risks\n")
		b.WriteString("- Insecure configurations\n")
		b.WriteString("- Third-party library vulnerabilities\n\n")
		b.WriteString(fmt.Sprintf("Example scan command for %s projects:\n", lang))
		b.WriteString("bearer scan --format json your_project_path/")
	}

	return b.String()
}
