package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/filter"
	"github.com/georgemunganga/storefront/internal/modules/quickview"
)

const (
	productPaneWidth = 56
	cartPaneWidth    = 40
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Wholesale storefront"))
	b.WriteString("  ")
	b.WriteString(m.styles.AddressBar.Render(m.AddressBar()))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	switch m.mode {
	case modeQuickView:
		b.WriteString(m.renderQuickView())
	case modeAlert:
		b.WriteString(m.renderAlertForm())
	default:
		left, right := m.styles.Pane, m.styles.Pane
		if m.focus == paneCart {
			right = m.styles.FocusPane
		} else {
			left = m.styles.FocusPane
		}
		products := left.Width(productPaneWidth).Render(m.renderProducts())
		cart := right.Width(cartPaneWidth).Render(m.renderCart())
		if m.width > 0 && m.width < productPaneWidth+cartPaneWidth+4 {
			b.WriteString(lipgloss.JoinVertical(lipgloss.Left, products, cart))
		} else {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, products, cart))
		}
	}
	b.WriteString("\n")

	if m.DeepLink != "" {
		b.WriteString(m.styles.Selected.Render("Send your order: "))
		b.WriteString(m.DeepLink)
		b.WriteString("\n")
	}
	for _, t := range m.toasts {
		b.WriteString(m.styles.Toast[string(t.Level)].Render("● " + t.Message))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) renderFilters() string {
	var parts []string
	for i, c := range m.facets.Categories {
		if i >= 9 {
			break
		}
		label := fmt.Sprintf("%d:%s", i+1, c)
		if slices.Contains(m.spec.Categories, c) {
			label = m.styles.Selected.Render("[" + label + "]")
		} else {
			label = m.styles.Muted.Render(label)
		}
		parts = append(parts, label)
	}
	stock := "all stock"
	if m.spec.InStockOnly {
		stock = "in stock only"
	}
	sort := m.spec.Sort
	if sort == "" {
		sort = filter.SortFeatured
	}
	parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("sort:%s  %s", sort, stock)))
	return strings.Join(parts, " ")
}

func (m Model) renderProducts() string {
	if m.loadErr != nil {
		return m.styles.Error.Render("Could not load the catalog: " + m.loadErr.Error())
	}
	if len(m.results) == 0 {
		if len(m.all) == 0 {
			return m.styles.Muted.Render("Loading catalog...")
		}
		return m.styles.Muted.Render("No products match these filters.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d products\n", len(m.results))
	for i, p := range m.results {
		line := fmt.Sprintf("%-30s %10s %s", truncate(p.Name, 30), p.Price.StringFixed(2), p.Currency)
		switch {
		case i == m.cursor && m.focus == paneProducts:
			line = m.styles.Selected.Render("> " + line)
		case !p.InStock():
			line = m.styles.OutOfStock.Render("  " + line + " (out of stock)")
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderCart() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cart (%d)\n", m.summary.Count)
	if len(m.summary.Lines) == 0 {
		b.WriteString(m.styles.Muted.Render("Your cart is empty"))
		return b.String()
	}
	for i, l := range m.summary.Lines {
		line := fmt.Sprintf("%3d x %-20s %10s", l.Quantity, truncate(l.Name, 20), l.LineTotal().StringFixed(2))
		if i == m.cartCursor && m.focus == paneCart {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total %s", m.summary.Total.StringFixed(2))
	return b.String()
}

func (m Model) renderQuickView() string {
	v := m.view
	var body string
	switch v.State {
	case quickview.StateLoading:
		body = m.styles.Muted.Render("Loading...")
	case quickview.StateError:
		body = m.styles.Error.Render(v.Error)
	case quickview.StateShown:
		body = renderProductDetail(m, v.Product, v.Quantity, v.MaxQuantity)
	default:
		body = m.styles.Muted.Render("Closed")
	}
	return m.styles.Modal.Render(body)
}

func renderProductDetail(m Model, p *catalog.Product, qty, maxQty int) string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(p.Name))
	fmt.Fprintf(&b, "\n%s  ·  %s %s\n", p.Category, p.Currency, p.Price.StringFixed(2))
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString("\n")
	}
	if img := p.Thumbnail(); img != "" {
		b.WriteString(m.styles.Muted.Render(img))
		b.WriteString("\n")
	}
	if !p.InStock() {
		b.WriteString(m.styles.OutOfStock.Render("Out of stock"))
		return b.String()
	}
	fmt.Fprintf(&b, "\nQuantity  [-] %d [+]   (%d available)", qty, maxQty)
	return b.String()
}

func (m Model) renderAlertForm() string {
	var b strings.Builder
	p := m.alertFor
	fmt.Fprintf(&b, "Price alert for %s (now %s %s)\n\n", p.Name, p.Currency, p.Price.StringFixed(2))
	b.WriteString(m.alertPrice.View())
	b.WriteString("\n")
	b.WriteString(m.alertEmail.View())
	if m.alertErr != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.alertErr))
	}
	return m.styles.Modal.Render(b.String())
}

func (m Model) help() string {
	switch m.mode {
	case modeSearch:
		return "type to search · enter/esc done"
	case modeQuickView:
		return "+/- quantity · a add to cart · esc close"
	case modeAlert:
		return "tab switch field · enter save · esc cancel"
	}
	if m.focus == paneCart {
		return "↑/↓ select · +/- quantity · d remove · o order on WhatsApp · tab products · q quit"
	}
	return "/ search · 1-9 category · s sort · i in stock · x clear · enter view · p price alert · tab cart · q quit"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
