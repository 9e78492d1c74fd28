package pulse

import "encoding/json"

// Attributes is a schema-less attribute set. Resource clients use it so the
// domain schema stays the API's responsibility.
type Attributes = map[string]interface{}

// RelationshipData identifies one related resource.
type RelationshipData struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id"   yaml:"id"`
}

// Relationship holds a to-one or to-many linkage. Data is either a
// RelationshipData object, an array of them, or null.
type Relationship struct {
	Data  json.RawMessage        `json:"data,omitempty"  yaml:"data,omitempty"`
	Links map[string]string      `json:"links,omitempty" yaml:"links,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"  yaml:"meta,omitempty"`
}

// ToOne builds a to-one relationship.
func ToOne(resourceType, id string) Relationship {
	data, _ := json.Marshal(RelationshipData{Type: resourceType, ID: id})

	return Relationship{Data: data}
}

// ToMany builds a to-many relationship.
func ToMany(resourceType string, ids ...string) Relationship {
	linkage := make([]RelationshipData, 0, len(ids))
	for _, id := range ids {
		linkage = append(linkage, RelationshipData{Type: resourceType, ID: id})
	}

	data, _ := json.Marshal(linkage)

	return Relationship{Data: data}
}

// Resource is a JSON:API resource object.
type Resource[A any] struct {
	Type          string                  `json:"type"                    yaml:"type"`
	ID            string                  `json:"id,omitempty"            yaml:"id,omitempty"`
	Attributes    A                       `json:"attributes,omitempty"    yaml:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Links         map[string]string       `json:"links,omitempty"         yaml:"links,omitempty"`
	Meta          map[string]interface{}  `json:"meta,omitempty"          yaml:"meta,omitempty"`
}

// Document is a JSON:API document carrying a single resource.
type Document[A any] struct {
	Data     Resource[A]            `json:"data"               yaml:"data"`
	Included []json.RawMessage      `json:"included,omitempty" yaml:"included,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"     yaml:"meta,omitempty"`
	Links    map[string]string      `json:"links,omitempty"    yaml:"links,omitempty"`
}

// ListDocument is a JSON:API document carrying a collection.
type ListDocument[A any] struct {
	Data     []Resource[A]          `json:"data"               yaml:"data"`
	Included []json.RawMessage      `json:"included,omitempty" yaml:"included,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"     yaml:"meta,omitempty"`
	Links    map[string]string      `json:"links,omitempty"    yaml:"links,omitempty"`
}

// NextLink returns the "next" pagination link, if any.
func (d *ListDocument[A]) NextLink() string {
	if d == nil || d.Links == nil {
		return ""
	}

	return d.Links["next"]
}

// NewDocument wraps attributes into an outgoing document of the given type.
func NewDocument[A any](resourceType, id string, attributes A) *Document[A] {
	return &Document[A]{
		Data: Resource[A]{
			Type:       resourceType,
			ID:         id,
			Attributes: attributes,
		},
	}
}

// WithRelationship adds a relationship to the document's primary resource.
func (d *Document[A]) WithRelationship(name string, rel Relationship) *Document[A] {
	if d.Data.Relationships == nil {
		d.Data.Relationships = make(map[string]Relationship)
	}

	d.Data.Relationships[name] = rel

	return d
}

// BinaryData is a downloaded file.
type BinaryData struct {
	Data     []byte `json:"-"                   yaml:"-"`
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	FileSize int    `json:"file_size"           yaml:"file_size"`
}

// CampaignWithStages is the outcome of the two-step campaign creation. The
// campaign is committed as soon as Campaign is set; StagesError reports a
// failure of the second step, which is never rolled back.
type CampaignWithStages struct {
	Campaign    *Document[Attributes]     `json:"campaign"               yaml:"campaign"`
	Stages      *ListDocument[Attributes] `json:"stages,omitempty"       yaml:"stages,omitempty"`
	StagesError error                     `json:"-"                      yaml:"-"`
}

// campaignWithStagesWire is the serialized form of CampaignWithStages, with
// the stage failure rendered as its message.
type campaignWithStagesWire struct {
	Campaign    *Document[Attributes]     `json:"campaign"               yaml:"campaign"`
	Stages      *ListDocument[Attributes] `json:"stages,omitempty"       yaml:"stages,omitempty"`
	StagesError string                    `json:"stages_error,omitempty" yaml:"stages_error,omitempty"`
}

func (c CampaignWithStages) wire() campaignWithStagesWire {
	out := campaignWithStagesWire{Campaign: c.Campaign, Stages: c.Stages}
	if c.StagesError != nil {
		out.StagesError = c.StagesError.Error()
	}

	return out
}

// MarshalJSON encodes the stage failure as its message under stages_error.
func (c CampaignWithStages) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// MarshalYAML mirrors MarshalJSON for yaml.v3.
func (c CampaignWithStages) MarshalYAML() (interface{}, error) {
	return c.wire(), nil
}

// Partial reports whether the campaign was created but its stages were not.
func (c *CampaignWithStages) Partial() bool {
	return c != nil && c.StagesError != nil
}
