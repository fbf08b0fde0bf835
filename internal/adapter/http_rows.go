package adapter

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"

	"github.com/go-resty/resty/v2"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a table or column
// name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

func checkIdentifiers(table string, filter Eq) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	for col := range filter {
		if !ValidIdentifier(col) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, col)
		}
	}
	return nil
}

// filterQuery renders filter in the row API's "col=eq.value" syntax.
func filterQuery(filter Eq) url.Values {
	cols := make([]string, 0, len(filter))
	for col := range filter {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	q := url.Values{}
	for _, col := range cols {
		q.Set(col, fmt.Sprintf("eq.%v", filter[col]))
	}
	return q
}

func (h *httpRemote) rowsRequest(ctx context.Context, table string, filter Eq) (*resty.Request, error) {
	if err := checkIdentifiers(table, filter); err != nil {
		return nil, err
	}
	req, err := h.userRequest(ctx)
	if err != nil {
		return nil, err
	}
	return req.SetQueryParamsFromValues(filterQuery(filter)), nil
}

// Select implements [RowStore].
func (h *httpRemote) Select(ctx context.Context, table string, filter Eq, dest any) error {
	req, err := h.rowsRequest(ctx, table, filter)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}

	resp, err := req.
		SetQueryParam("select", "*").
		SetResult(dest).
		Get(restPrefix + "/" + table)
	if err != nil {
		return transportError("select "+table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// Insert implements [RowStore].
func (h *httpRemote) Insert(ctx context.Context, table string, row any, dest any) error {
	req, err := h.rowsRequest(ctx, table, nil)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	req.SetBody(row)
	withRepresentation(req, dest)

	resp, err := req.Post(restPrefix + "/" + table)
	if err != nil {
		return transportError("insert "+table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Update implements [RowStore].
func (h *httpRemote) Update(ctx context.Context, table string, filter Eq, patch any, dest any) error {
	req, err := h.rowsRequest(ctx, table, filter)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	req.SetBody(patch)
	withRepresentation(req, dest)

	resp, err := req.Patch(restPrefix + "/" + table)
	if err != nil {
		return transportError("update "+table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// Delete implements [RowStore].
func (h *httpRemote) Delete(ctx context.Context, table string, filter Eq) error {
	req, err := h.rowsRequest(ctx, table, filter)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}

	resp, err := req.Delete(restPrefix + "/" + table)
	if err != nil {
		return transportError("delete "+table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// Upsert implements [RowStore].
func (h *httpRemote) Upsert(ctx context.Context, table string, rows any, opts UpsertOptions) error {
	if opts.OnConflict != "" && !ValidIdentifier(opts.OnConflict) {
		return fmt.Errorf("upsert %s: %w: %q", table, ErrInvalidIdentifier, opts.OnConflict)
	}
	req, err := h.rowsRequest(ctx, table, nil)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}

	resolution := "resolution=merge-duplicates"
	if opts.IgnoreDuplicates {
		resolution = "resolution=ignore-duplicates"
	}
	req.SetHeader("Prefer", resolution+",return=minimal").SetBody(rows)
	if opts.OnConflict != "" {
		req.SetQueryParam("on_conflict", opts.OnConflict)
	}

	resp, err := req.Post(restPrefix + "/" + table)
	if err != nil {
		return transportError("upsert "+table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func withRepresentation(req *resty.Request, dest any) {
	if dest == nil {
		req.SetHeader("Prefer", "return=minimal")
		return
	}
	req.SetHeader("Prefer", "return=representation").SetResult(dest)
}

// EnsureSchema implements [SchemaManager] by calling the service-side
// ensure_schema procedure with the service key.
func (h *httpRemote) EnsureSchema(ctx context.Context) error {
	req, err := h.serviceRequest(ctx)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	resp, err := req.SetBody(map[string]any{}).Post(restPrefix + "/rpc/ensure_schema")
	if err != nil {
		return transportError("ensure schema", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("ensure schema: %w: %w", ErrSchemaMismatch, err)
	}
	return nil
}
