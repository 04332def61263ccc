package browser

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-library-check/catalog"
	jsoniter "github.com/json-iterator/go"
)

// Wicket form field names of the advanced search page.
const (
	advancedSearchLink = "Tarkennettu haku"
	systemChoice       = "organisationHierarchyPanel:organisationContainer:organisationChoice"
	materialChoice     = "materialPanel:mediaClassContainer:mediaClassChoice"
	titleTypeChoice    = "freeTextFieldsContainer:freeTextView:0:freeTextPanel:freeTextTypeChoice"
	titleField         = "freeTextFieldsContainer:freeTextView:0:freeTextPanel:freeTextField"
	authorTypeChoice   = "freeTextFieldsContainer:freeTextView:1:freeTextPanel:freeTextTypeChoice"
	authorField        = "freeTextFieldsContainer:freeTextView:1:freeTextPanel:freeTextField"
	searchButton       = "bottomButtonsContainer:bottomSearchButton"

	titleType  = "Teos"
	authorType = "Tekijä"

	resultsText      = "Hakutulos"
	availabilityText = "Saatavilla"
	holdingsText     = "Osasto:"

	logoSelector = ".custom-logo"
)

// xpathLiteral quotes s for use in an XPath 1.0 expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// linkXPath matches links by their visible text.
func linkXPath(text string) string {
	return "//a[normalize-space(.)=" + xpathLiteral(text) + "]"
}

// textXPath matches spans containing text.
func textXPath(text string) string {
	return "//span[contains(text(), " + xpathLiteral(text) + ")]"
}

func optionXPath(text string) string {
	return "//option[text()=" + xpathLiteral(text) + "]"
}

// nth selects the i-th (1-based) match of xpath.
func nth(xpath string, i int) string {
	return fmt.Sprintf("(%s)[%d]", xpath, i)
}

// indicatorXPath locates the value of an indicator cell inside the holdings
// block that follows the branch label.
func indicatorXPath(branch string, kind catalog.IndicatorKind) string {
	return "//span[text()=" + xpathLiteral(branch) + "]/../../following-sibling::div[@class='arena-holding-child-hyper-container']" +
		"//td[@class='" + kind.CellClass() + "']/span[@class='arena-value']"
}

// nameSelector is a CSS selector for a form field name.
func nameSelector(name string) string {
	return `[name="` + name + `"]`
}

// selectScript picks the option with the given visible text and fires the
// change event the page listens to. It evaluates to false when no option
// matches.
func selectScript(name, text string) string {
	n, _ := jsoniter.MarshalToString(name)
	t, _ := jsoniter.MarshalToString(text)
	return fmt.Sprintf(`(function(name, text) {
	const sel = document.getElementsByName(name)[0];
	if (!sel) return false;
	for (const opt of sel.options) {
		if (opt.text.trim() === text) {
			sel.value = opt.value;
			sel.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		}
	}
	return false;
})(%s, %s)`, n, t)
}
