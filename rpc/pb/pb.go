package pb

import (
	proto "github.com/gogo/protobuf/proto"
)

// Call is the envelope of every remote procedure invocation: the procedure name, and its
// protobuf-encoded arguments.
type Call struct {
	Procedure string `protobuf:"bytes,1,opt,name=procedure,proto3" json:"procedure,omitempty"`
	Payload   []byte `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *Call) Reset()         { *m = Call{} }
func (m *Call) String() string { return proto.CompactTextString(m) }
func (*Call) ProtoMessage()    {}

type Result struct {
	Payload []byte `protobuf:"bytes,1,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *Result) Reset()         { *m = Result{} }
func (m *Result) String() string { return proto.CompactTextString(m) }
func (*Result) ProtoMessage()    {}

type MemberArgs struct {
	Host string `protobuf:"bytes,1,opt,name=host,proto3" json:"host,omitempty"`
	Role int32  `protobuf:"varint,2,opt,name=role,proto3" json:"role,omitempty"`
}

func (m *MemberArgs) Reset()         { *m = MemberArgs{} }
func (m *MemberArgs) String() string { return proto.CompactTextString(m) }
func (*MemberArgs) ProtoMessage()    {}

type HostArgs struct {
	Host string `protobuf:"bytes,1,opt,name=host,proto3" json:"host,omitempty"`
}

func (m *HostArgs) Reset()         { *m = HostArgs{} }
func (m *HostArgs) String() string { return proto.CompactTextString(m) }
func (*HostArgs) ProtoMessage()    {}

type SeedArgs struct {
	Seed int64 `protobuf:"varint,1,opt,name=seed,proto3" json:"seed,omitempty"`
}

func (m *SeedArgs) Reset()         { *m = SeedArgs{} }
func (m *SeedArgs) String() string { return proto.CompactTextString(m) }
func (*SeedArgs) ProtoMessage()    {}

type MembersArgs struct {
	Clients []string `protobuf:"bytes,1,rep,name=clients,proto3" json:"clients,omitempty"`
	Servers []string `protobuf:"bytes,2,rep,name=servers,proto3" json:"servers,omitempty"`
}

func (m *MembersArgs) Reset()         { *m = MembersArgs{} }
func (m *MembersArgs) String() string { return proto.CompactTextString(m) }
func (*MembersArgs) ProtoMessage()    {}

type LoadArgs struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *LoadArgs) Reset()         { *m = LoadArgs{} }
func (m *LoadArgs) String() string { return proto.CompactTextString(m) }
func (*LoadArgs) ProtoMessage()    {}

type PingArgs struct {
	From    string `protobuf:"bytes,1,opt,name=from,proto3" json:"from,omitempty"`
	Payload string `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *PingArgs) Reset()         { *m = PingArgs{} }
func (m *PingArgs) String() string { return proto.CompactTextString(m) }
func (*PingArgs) ProtoMessage()    {}

type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return proto.CompactTextString(m) }
func (*Empty) ProtoMessage()    {}

type MemberList struct {
	Members []*MemberArgs `protobuf:"bytes,1,rep,name=members,proto3" json:"members,omitempty"`
}

func (m *MemberList) Reset()         { *m = MemberList{} }
func (m *MemberList) String() string { return proto.CompactTextString(m) }
func (*MemberList) ProtoMessage()    {}
