package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// CreateDocument stores a new document. An existing id is a conflict.
func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*simpleblog.Document, error) {
	const op = "databases.createDocument"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := resolveID(op, documentID)
	if err != nil {
		return nil, err
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	key := collectionKey(databaseID, collectionID)
	coll, ok := s.documents[key]
	if !ok {
		coll = make(map[string]*simpleblog.Document)
		s.documents[key] = coll
	}
	if _, exists := coll[id]; exists {
		return nil, simpleblog.NewPlatformError(op, http.StatusConflict, "document_already_exists",
			"Document with the requested ID already exists.")
	}

	now := s.timestamp()
	doc := &simpleblog.Document{
		ID:           id,
		CollectionID: collectionID,
		DatabaseID:   databaseID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Permissions:  []string{},
		Data:         copyData(data),
	}
	coll[id] = doc
	return cloneDocument(doc), nil
}

// GetDocument reads one document.
func (c *Client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*simpleblog.Document, error) {
	const op = "databases.getDocument"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := c.server
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[collectionKey(databaseID, collectionID)][documentID]
	if !ok {
		return nil, documentNotFound(op)
	}
	return cloneDocument(doc), nil
}

// UpdateDocument merges data into an existing document. It never creates.
func (c *Client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*simpleblog.Document, error) {
	const op = "databases.updateDocument"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[collectionKey(databaseID, collectionID)][documentID]
	if !ok {
		return nil, documentNotFound(op)
	}
	for k, v := range data {
		doc.Data[k] = v
	}
	doc.UpdatedAt = s.timestamp()
	return cloneDocument(doc), nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	const op = "databases.deleteDocument"
	if err := ctx.Err(); err != nil {
		return err
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.documents[collectionKey(databaseID, collectionID)]
	if _, ok := coll[documentID]; !ok {
		return documentNotFound(op)
	}
	delete(coll, documentID)
	return nil
}

// ListDocuments evaluates queries against a collection. Total counts the
// matches before limit and offset apply.
func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries []simpleblog.Query) (*simpleblog.DocumentList, error) {
	const op = "databases.listDocuments"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := c.server
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, err := compile(queries)
	if err != nil {
		return nil, simpleblog.NewPlatformError(op, http.StatusBadRequest, "general_query_invalid", err.Error())
	}

	coll := s.documents[collectionKey(databaseID, collectionID)]
	matched := make([]*simpleblog.Document, 0, len(coll))
	for _, doc := range coll {
		if plan.matches(doc) {
			matched = append(matched, doc)
		}
	}
	plan.sort(matched)

	total := len(matched)
	start := min(plan.offset, total)
	end := min(start+plan.limit, total)

	out := &simpleblog.DocumentList{Total: total, Documents: make([]*simpleblog.Document, 0, end-start)}
	for _, doc := range matched[start:end] {
		out.Documents = append(out.Documents, cloneDocument(doc))
	}
	return out, nil
}

type orderBy struct {
	attribute string
	desc      bool
}

type queryPlan struct {
	filters []simpleblog.Query
	orders  []orderBy
	limit   int
	offset  int
}

func compile(queries []simpleblog.Query) (*queryPlan, error) {
	plan := &queryPlan{limit: defaultListLimit}
	for _, q := range queries {
		switch q.Method {
		case simpleblog.QueryEqual, simpleblog.QueryNotEqual, simpleblog.QuerySearch:
			if q.Attribute == "" || len(q.Values) == 0 {
				return nil, fmt.Errorf("invalid query: %s requires an attribute and values", q.Method)
			}
			plan.filters = append(plan.filters, q)
		case simpleblog.QueryLimit, simpleblog.QueryOffset:
			n, err := intValue(q)
			if err != nil {
				return nil, err
			}
			if q.Method == simpleblog.QueryLimit {
				plan.limit = n
			} else {
				plan.offset = n
			}
		case simpleblog.QueryOrderAsc, simpleblog.QueryOrderDesc:
			plan.orders = append(plan.orders, orderBy{attribute: q.Attribute, desc: q.Method == simpleblog.QueryOrderDesc})
		default:
			return nil, fmt.Errorf("invalid query method: %s", q.Method)
		}
	}
	return plan, nil
}

func intValue(q simpleblog.Query) (int, error) {
	if len(q.Values) != 1 {
		return 0, fmt.Errorf("invalid query: %s requires one value", q.Method)
	}
	switch v := q.Values[0].(type) {
	case int:
		if v >= 0 {
			return v, nil
		}
	case float64:
		if v >= 0 && v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("invalid query: %s requires a non-negative integer", q.Method)
}

func (p *queryPlan) matches(doc *simpleblog.Document) bool {
	for _, f := range p.filters {
		got := attribute(doc, f.Attribute)
		switch f.Method {
		case simpleblog.QueryEqual:
			if !anyEqual(got, f.Values) {
				return false
			}
		case simpleblog.QueryNotEqual:
			if anyEqual(got, f.Values) {
				return false
			}
		case simpleblog.QuerySearch:
			term := strings.ToLower(fmt.Sprint(f.Values[0]))
			if !strings.Contains(strings.ToLower(fmt.Sprint(got)), term) {
				return false
			}
		}
	}
	return true
}

func (p *queryPlan) sort(docs []*simpleblog.Document) {
	orders := p.orders
	if len(orders) == 0 {
		orders = []orderBy{{attribute: "$createdAt"}, {attribute: "$id"}}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orders {
			a := fmt.Sprint(attribute(docs[i], o.attribute))
			b := fmt.Sprint(attribute(docs[j], o.attribute))
			if a == b {
				continue
			}
			if o.desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func attribute(doc *simpleblog.Document, name string) any {
	switch name {
	case "$id":
		return doc.ID
	case "$createdAt":
		return doc.CreatedAt
	case "$updatedAt":
		return doc.UpdatedAt
	}
	return doc.Data[name]
}

func anyEqual(got any, values []any) bool {
	for _, v := range values {
		if fmt.Sprint(got) == fmt.Sprint(v) {
			return true
		}
	}
	return false
}

func documentNotFound(op string) error {
	return simpleblog.NewPlatformError(op, http.StatusNotFound, "document_not_found",
		"Document with the requested ID could not be found.")
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func cloneDocument(doc *simpleblog.Document) *simpleblog.Document {
	out := *doc
	out.Data = copyData(doc.Data)
	out.Permissions = append([]string{}, doc.Permissions...)
	return &out
}
