package domain

import "time"

// Enumerations. Values are the Vietnamese labels the studio works with; they
// travel as-is through the API and the UI.
const (
	ClientTownhouse  ClientType = "Nhà phố"
	ClientVilla      ClientType = "Biệt thự"
	ClientRenovation ClientType = "Cải tạo"
	ClientInterior   ClientType = "Nội thất"

	ClientNew        ClientStatus = "Mới"
	ClientConsulting ClientStatus = "Đang tư vấn"
	ClientSigned     ClientStatus = "Đã ký"
	ClientCancelled  ClientStatus = "Hủy"

	StageNotStarted StageStatus = "Chưa làm"
	StageInProgress StageStatus = "Đang làm"
	StageDone       StageStatus = "Hoàn thành"

	ContractDesign  ContractType = "Thiết kế"
	ContractBuild   ContractType = "Thi công"
	ContractTurnkey ContractType = "Trọn gói"

	ProjectHighRise ProjectType = "Cao tầng"
	ProjectLowRise  ProjectType = "Thấp tầng"
	ProjectInterior ProjectType = "Nội thất"

	PaymentUnpaid  PaymentStatus = "Chưa thu"
	PaymentPaid    PaymentStatus = "Đã thu"
	PaymentOverdue PaymentStatus = "Quá hạn"
)

type ClientType string
type ClientStatus string
type StageStatus string
type ContractType string
type ProjectType string
type PaymentStatus string

// StageTemplate is the fixed stage sequence every project is created with.
// The last entry doubles as the project completion marker.
var StageTemplate = []string{
	"Phương án Concept",
	"Hồ sơ xin phép xây dựng",
	"Hồ sơ kỹ thuật thi công",
	"Giám sát tác giả",
	"Bàn giao & Quyết toán",
}

type Client struct {
	ID           string
	Name         string
	Phone        string
	Zalo         string
	Type         ClientType
	Status       ClientStatus
	Notes        string
	NextFollowUp *Date
	CreatedAt    time.Time
}

type ProjectStage struct {
	ID       string
	Name     string
	Status   StageStatus
	Deadline *Date
}

// PaymentMilestone is one payment tranche of a contract. The stored Status is
// set by the user; whether a milestone is effectively overdue is derived from
// the due date, never written back.
type PaymentMilestone struct {
	ID      string
	Name    string
	Amount  int64
	DueDate Date
	Status  PaymentStatus
}

// ProjectFile carries metadata only. Path is a synthesized archive location on
// the studio file server; the bytes are never stored here.
type ProjectFile struct {
	ID         string
	Name       string
	Type       string
	Path       string
	UploadedAt time.Time
	StageID    *string
}

// Project is a signed design/construction contract. ClientID may point at a
// deleted client; the reference is kept as-is rather than cascaded.
type Project struct {
	ID                  string
	ClientID            string
	ContractCode        string
	Name                string
	LeadName            string
	ContractSigningDate *Date
	ContractDeadline    *Date
	ContractType        ContractType
	ProjectType         ProjectType
	TotalValue          int64

	// Fixed per-discipline staff, optional.
	Architect          string
	StructuralEngineer string
	MEEngineer         string
	PlumbingEngineer   string

	Stages   []ProjectStage
	Payments []PaymentMilestone
	Files    []ProjectFile

	CreatedAt time.Time
}

// Clone returns a deep copy so callers can mutate freely without aliasing the
// stored value.
func (p Project) Clone() Project {
	out := p
	out.Stages = append([]ProjectStage(nil), p.Stages...)
	out.Payments = append([]PaymentMilestone(nil), p.Payments...)
	out.Files = append([]ProjectFile(nil), p.Files...)
	return out
}
