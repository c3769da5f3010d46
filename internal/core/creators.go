package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/jackc/pgx/v5"
)

// creators.go holds one record creator per domain type. Creators own the
// business rules that go beyond a plain insert: free-text author names on
// books are split and get-or-created, employee groups are resolved by name,
// and orders resolve their customer/employee references by fuzzy name
// matching.

// paymentMethods maps both storage values and display names to the stored
// payment method value.
var paymentMethods = map[string]string{
	"cash":        "cash",
	"check":       "check",
	"credit":      "credit",
	"credit card": "credit",
	"other":       "other",
}

// orderStatuses maps both storage values and display names to the stored
// order status value.
var orderStatuses = map[string]string{
	"to_ship":               "to_ship",
	"to be shipped":         "to_ship",
	"pickup":                "pickup",
	"customer will pick up": "pickup",
	"shipped":               "shipped",
	"picked_up":             "picked_up",
	"picked up":             "picked_up",
}

// Creators performs the per-type inserts. db is normally a pgx.Tx so the
// caller controls transaction and savepoint boundaries.
type Creators struct {
	db DBTX
}

// NewCreators returns creators bound to the given connection or transaction.
func NewCreators(db DBTX) *Creators {
	return &Creators{db: db}
}

// Create dispatches to the creator for the given domain type.
func (c *Creators) Create(ctx context.Context, domainType importer.DomainType, rec importer.Record) error {
	switch domainType {
	case importer.TypeAuthor:
		return c.CreateAuthor(ctx, rec)
	case importer.TypeBook:
		return c.CreateBook(ctx, rec)
	case importer.TypeCustomer:
		return c.CreateCustomer(ctx, rec)
	case importer.TypeEmployee:
		return c.CreateEmployee(ctx, rec)
	case importer.TypeOrder:
		return c.CreateOrder(ctx, rec)
	default:
		return fmt.Errorf("unknown record type: %s", domainType)
	}
}

// CreateAuthor inserts one author row.
func (c *Creators) CreateAuthor(ctx context.Context, rec importer.Record) error {
	lastName := toPgText(rec["last_name"])
	if !lastName.Valid {
		return errors.New("author last name is required")
	}

	_, err := c.db.Exec(ctx, `
		INSERT INTO authors (last_name, first_name, birth_year, death_year, description)
		VALUES ($1, $2, $3, $4, $5)`,
		lastName,
		toPgTextDefault(rec["first_name"], ""),
		toPgInt(rec["birth_year"]),
		toPgInt(rec["death_year"]),
		toPgText(rec["description"]),
	)
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

// CreateBook inserts one book and links its authors. The author_names field
// accepts free text ("Jane Austen; Mark Twain", "Jane Austen and Mark
// Twain"); each parsed name is looked up or created.
func (c *Creators) CreateBook(ctx context.Context, rec importer.Record) error {
	title := toPgText(rec["title"])
	if !title.Valid {
		return errors.New("book title is required")
	}
	cost := toPgNumeric(rec["cost"])
	if !cost.Valid {
		return errors.New("book cost is required")
	}
	retail := toPgNumeric(rec["suggested_retail_price"])
	if !retail.Valid {
		return errors.New("book suggested retail price is required")
	}

	var bookID int64
	err := c.db.QueryRow(ctx, `
		INSERT INTO books (title, cost, suggested_retail_price, legacy_id, condition, book_status, publisher, edition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING book_id`,
		title,
		cost,
		retail,
		toPgText(rec["legacy_id"]),
		toPgTextDefault(rec["condition"], "unrated"),
		toPgTextDefault(rec["book_status"], "processing"),
		toPgText(rec["publisher"]),
		toPgText(rec["edition"]),
	).Scan(&bookID)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	authorNames := strings.TrimSpace(rec["author_names"].String())
	if authorNames == "" {
		return nil
	}
	for _, name := range SplitNameList(authorNames) {
		lastName, firstName := ParsePersonName(name)
		authorID, err := c.getOrCreateAuthor(ctx, lastName, firstName)
		if err != nil {
			return err
		}
		_, err = c.db.Exec(ctx, `
			INSERT INTO book_authors (book_id, author_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			bookID, authorID)
		if err != nil {
			return fmt.Errorf("link author %q: %w", name, err)
		}
	}
	return nil
}

// CreateCustomer inserts one customer; at least one of first or last name
// must be present.
func (c *Creators) CreateCustomer(ctx context.Context, rec importer.Record) error {
	firstName := toPgText(rec["first_name"])
	lastName := toPgText(rec["last_name"])
	if !firstName.Valid && !lastName.Valid {
		return errors.New("either first name or last name must be provided")
	}

	_, err := c.db.Exec(ctx, `
		INSERT INTO customers (first_name, last_name, phone_number, mailing_address,
			secondary_mailing_address, city, state, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		firstName,
		lastName,
		toPgText(rec["phone_number"]),
		toPgText(rec["mailing_address"]),
		toPgTextDefault(rec["secondary_mailing_address"], "N/A"),
		toPgText(rec["city"]),
		toPgText(rec["state"]),
		toPgText(rec["zip_code"]),
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// CreateEmployee inserts one employee. The group is resolved by name and
// must already exist; the login username is derived from first.last with a
// numeric suffix on conflict.
func (c *Creators) CreateEmployee(ctx context.Context, rec importer.Record) error {
	firstName := toPgText(rec["first_name"])
	lastName := toPgText(rec["last_name"])
	if !firstName.Valid {
		return errors.New("employee first name is required")
	}
	if !lastName.Valid {
		return errors.New("employee last name is required")
	}

	groupName := strings.TrimSpace(rec["group_name"].String())
	if groupName == "" {
		return errors.New("group name is required")
	}
	var groupID int64
	err := c.db.QueryRow(ctx,
		`SELECT group_id FROM shop_groups WHERE lower(name) = lower($1)`,
		groupName).Scan(&groupID)
	if err != nil {
		return fmt.Errorf("group %q does not exist", groupName)
	}

	username, err := c.availableUsername(ctx, firstName.String, lastName.String)
	if err != nil {
		return err
	}

	_, err = c.db.Exec(ctx, `
		INSERT INTO employees (first_name, last_name, phone_number, address, secondary_address,
			city, state, zip_code, email, username, group_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		firstName,
		lastName,
		toPgText(rec["phone_number"]),
		toPgText(rec["address"]),
		toPgTextDefault(rec["secondary_address"], "N/A"),
		toPgText(rec["city"]),
		toPgText(rec["state"]),
		toPgText(rec["zip_code"]),
		toPgText(rec["email"]),
		username,
		groupID,
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// CreateOrder inserts one order, resolving customer and employee references
// by name and linking any listed book titles.
func (c *Creators) CreateOrder(ctx context.Context, rec importer.Record) error {
	customerName := strings.TrimSpace(rec["customer_name"].String())
	customerID, err := c.findCustomer(ctx, customerName)
	if err != nil {
		return fmt.Errorf("customer not found: %s", customerName)
	}

	employeeName := strings.TrimSpace(rec["employee_name"].String())
	employeeID, err := c.findEmployee(ctx, employeeName)
	if err != nil {
		return fmt.Errorf("employee not found: %s", employeeName)
	}

	saleAmount := toPgNumeric(rec["sale_amount"])
	if !saleAmount.Valid {
		return errors.New("sale amount is required")
	}

	method, ok := paymentMethods[strings.ToLower(strings.TrimSpace(rec["payment_method"].String()))]
	if !ok {
		return fmt.Errorf("invalid payment method: %s", rec["payment_method"].String())
	}

	statusRaw := strings.ToLower(strings.TrimSpace(rec["order_status"].String()))
	status := "pickup"
	if statusRaw != "" {
		status, ok = orderStatuses[statusRaw]
		if !ok {
			return fmt.Errorf("invalid order status: %s", statusRaw)
		}
	}

	var orderID int64
	err = c.db.QueryRow(ctx, `
		INSERT INTO orders (customer_id, employee_id, sale_amount, discount_amount, payment_method, order_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_id`,
		customerID,
		employeeID,
		saleAmount,
		toPgNumeric(importer.Normalize(rec["discount_amount"], importer.FieldDecimal)),
		method,
		status,
	).Scan(&orderID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	bookTitles := strings.TrimSpace(rec["book_titles"].String())
	if bookTitles == "" {
		return nil
	}
	for _, title := range SplitTitleList(bookTitles) {
		if err := c.linkOrderBook(ctx, orderID, title); err != nil {
			return err
		}
	}
	return nil
}

func (c *Creators) getOrCreateAuthor(ctx context.Context, lastName, firstName string) (int64, error) {
	var authorID int64
	err := c.db.QueryRow(ctx, `
		SELECT author_id FROM authors
		WHERE lower(last_name) = lower($1) AND lower(first_name) = lower($2)
		LIMIT 1`,
		lastName, firstName).Scan(&authorID)
	if err == nil {
		return authorID, nil
	}

	err = c.db.QueryRow(ctx, `
		INSERT INTO authors (last_name, first_name)
		VALUES ($1, $2)
		RETURNING author_id`,
		lastName, firstName).Scan(&authorID)
	if err != nil {
		return 0, fmt.Errorf("create author %q: %w", lastName, err)
	}
	return authorID, nil
}

func (c *Creators) availableUsername(ctx context.Context, firstName, lastName string) (string, error) {
	first := strings.ToLower(strings.TrimSpace(firstName))
	last := strings.ToLower(strings.TrimSpace(lastName))
	if first == "" {
		first = "user"
	}
	if last == "" {
		last = "import"
	}
	base := strings.Trim(first+"."+last, ".")
	if base == "" {
		base = "import.user"
	}

	username := base
	for counter := 1; ; counter++ {
		var exists bool
		err := c.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM employees WHERE username = $1)`,
			username).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !exists {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

// findCustomer resolves a free-text name. A single substring match wins;
// with several candidates an exact full-name match is preferred, then the
// first candidate.
func (c *Creators) findCustomer(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("empty customer name")
	}
	rows, err := c.db.Query(ctx, `
		SELECT customer_id, coalesce(first_name, ''), coalesce(last_name, '')
		FROM customers
		WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		ORDER BY customer_id`,
		name)
	if err != nil {
		return 0, fmt.Errorf("find customer: %w", err)
	}
	defer rows.Close()
	return pickByName(rows, name)
}

// findEmployee mirrors findCustomer for employees.
func (c *Creators) findEmployee(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("empty employee name")
	}
	rows, err := c.db.Query(ctx, `
		SELECT employee_id, coalesce(first_name, ''), coalesce(last_name, '')
		FROM employees
		WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		ORDER BY employee_id`,
		name)
	if err != nil {
		return 0, fmt.Errorf("find employee: %w", err)
	}
	defer rows.Close()
	return pickByName(rows, name)
}

func (c *Creators) linkOrderBook(ctx context.Context, orderID int64, title string) error {
	var bookID int64
	err := c.db.QueryRow(ctx, `
		SELECT book_id FROM books
		WHERE title ILIKE '%' || $1 || '%' OR legacy_id = $1
		ORDER BY book_id
		LIMIT 1`,
		title).Scan(&bookID)
	if err != nil {
		// Missing books are logged upstream as warnings, never fatal for
		// the order.
		return nil
	}
	_, err = c.db.Exec(ctx, `
		INSERT INTO order_books (order_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		orderID, bookID)
	if err != nil {
		return fmt.Errorf("link book %q: %w", title, err)
	}
	return nil
}

// pickByName chooses among name-match candidates: a lone candidate wins,
// several candidates prefer an exact case-insensitive full-name match, and
// otherwise the first candidate is taken.
func pickByName(rows pgx.Rows, name string) (int64, error) {
	type candidate struct {
		id          int64
		first, last string
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.first, &c.last); err != nil {
			return 0, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, errors.New("no match")
	}
	if len(candidates) > 1 {
		for _, c := range candidates {
			fullName := strings.TrimSpace(c.first + " " + c.last)
			if strings.EqualFold(fullName, name) {
				return c.id, nil
			}
		}
	}
	return candidates[0].id, nil
}

// SplitNameList splits free text on the common name separators: ";", ",",
// "&", " and ", and newlines.
func SplitNameList(s string) []string {
	return splitOnSeparators(s, []string{";", ",", "&", " and ", "\n"})
}

// SplitTitleList splits free text on the separators used for book titles.
// "&" and " and " are excluded because they appear inside titles.
func SplitTitleList(s string) []string {
	return splitOnSeparators(s, []string{";", ",", "\n"})
}

func splitOnSeparators(s string, separators []string) []string {
	parts := []string{strings.TrimSpace(s)}
	for _, sep := range separators {
		var next []string
		for _, part := range parts {
			for _, piece := range strings.Split(part, sep) {
				if piece = strings.TrimSpace(piece); piece != "" {
					next = append(next, piece)
				}
			}
		}
		parts = next
	}
	return parts
}

// ParsePersonName parses "Last, First" or "First [Middle] Last" into a
// (last, first) pair. A single token becomes the last name.
func ParsePersonName(name string) (lastName, firstName string) {
	if before, after, found := strings.Cut(name, ","); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[len(tokens)-1], strings.Join(tokens[:len(tokens)-1], " ")
	}
}
