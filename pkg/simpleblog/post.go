package simpleblog

// CreatePostRequest contains the fields of a new post. Slug becomes the
// document id and must be unique within the collection.
type CreatePostRequest struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Status        PostStatus `json:"status"`
	UserID        string     `json:"userId"`
}

// UpdatePostRequest is a partial update. Nil fields are left untouched.
// The owner of a post cannot be changed.
type UpdatePostRequest struct {
	Title         *string     `json:"title,omitempty"`
	Content       *string     `json:"content,omitempty"`
	FeaturedImage *string     `json:"featuredImage,omitempty"`
	Status        *PostStatus `json:"status,omitempty"`
}

// Post is the typed view of a post document.
type Post struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Status        PostStatus `json:"status"`
	UserID        string     `json:"userId"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

func (r CreatePostRequest) data() map[string]any {
	var image any
	if r.FeaturedImage != "" {
		image = r.FeaturedImage
	}
	return map[string]any{
		AttrTitle:         r.Title,
		AttrContent:       r.Content,
		AttrFeaturedImage: image,
		AttrStatus:        string(r.Status),
		AttrUserID:        r.UserID,
	}
}

func (r UpdatePostRequest) data() map[string]any {
	data := make(map[string]any, 4)
	if r.Title != nil {
		data[AttrTitle] = *r.Title
	}
	if r.Content != nil {
		data[AttrContent] = *r.Content
	}
	if r.FeaturedImage != nil {
		if *r.FeaturedImage == "" {
			data[AttrFeaturedImage] = nil
		} else {
			data[AttrFeaturedImage] = *r.FeaturedImage
		}
	}
	if r.Status != nil {
		data[AttrStatus] = string(*r.Status)
	}
	return data
}

// PostFromDocument decodes a post document. Missing or mistyped attributes
// decode as empty strings.
func PostFromDocument(doc *Document) Post {
	if doc == nil {
		return Post{}
	}
	str := func(key string) string {
		s, _ := doc.Data[key].(string)
		return s
	}
	return Post{
		Slug:          doc.ID,
		Title:         str(AttrTitle),
		Content:       str(AttrContent),
		FeaturedImage: str(AttrFeaturedImage),
		Status:        PostStatus(str(AttrStatus)),
		UserID:        str(AttrUserID),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// PostsFromList decodes every document of a listing.
func PostsFromList(list *DocumentList) []Post {
	if list == nil {
		return nil
	}
	posts := make([]Post, 0, len(list.Documents))
	for _, doc := range list.Documents {
		posts = append(posts, PostFromDocument(doc))
	}
	return posts
}

// StringPtr is a helper for building UpdatePostRequest values.
func StringPtr(s string) *string {
	return &s
}

// StatusPtr is a helper for building UpdatePostRequest values.
func StatusPtr(s PostStatus) *PostStatus {
	return &s
}
