package broxml_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
	"github.com/bro-exchange/bro-exchange/pkg/connector"
	"github.com/bro-exchange/bro-exchange/pkg/connector/mocks"
)

func newSampleRequest(reference string) *broxml.Request {
	root := etree.NewElement("ns:registrationRequest")
	broxml.Declare(root,
		broxml.Namespace{Prefix: "ns", URI: "http://www.broservices.nl/xsd/isgmw/1.1"},
		broxml.Namespace{Prefix: "ns1", URI: broxml.NSBroCommon},
	)
	broxml.WriteMetadata(root, "ns1", &broxml.Metadata{
		RequestReference: reference,
		QualityRegime:    "IMBRO",
	})
	return broxml.NewRequest(reference, root)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    broxml.Kind
		wantErr bool
	}{
		{in: "registration", want: broxml.KindRegistration},
		{in: " Replace ", want: broxml.KindReplace},
		{in: "MOVE", want: broxml.KindMove},
		{in: "delete", want: broxml.KindDelete},
		{in: "insert", want: broxml.KindInsert},
		{in: "update", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := broxml.ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "replaceRequest", broxml.KindReplace.Element())
}

func TestMetadata_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		kind        broxml.Kind
		meta        broxml.Metadata
		wantMissing []string
	}{
		{
			name: "registration complete",
			kind: broxml.KindRegistration,
			meta: broxml.Metadata{RequestReference: "r", QualityRegime: "IMBRO"},
		},
		{
			name:        "registration empty",
			kind:        broxml.KindRegistration,
			wantMissing: []string{"requestReference", "qualityRegime"},
		},
		{
			name:        "replace needs correction reason",
			kind:        broxml.KindReplace,
			meta:        broxml.Metadata{RequestReference: "r", QualityRegime: "IMBRO"},
			wantMissing: []string{"correctionReason"},
		},
		{
			name:        "move needs date to be corrected",
			kind:        broxml.KindMove,
			meta:        broxml.Metadata{RequestReference: "r", QualityRegime: "IMBRO", CorrectionReason: "eigenCorrectie"},
			wantMissing: []string{"dateToBeCorrected"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.meta.Check("gmw", tt.kind)
			if tt.wantMissing == nil {
				require.NoError(t, err)
				return
			}
			var missingErr *broxml.MissingArgsError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, tt.wantMissing, missingErr.Missing)
			assert.Contains(t, missingErr.Method, "gmw_"+string(tt.kind))
		})
	}
}

func TestCheckBroID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		kind         broxml.Kind
		broID        string
		startsObject bool
		wantErr      error
	}{
		{name: "new object without broId", kind: broxml.KindRegistration, startsObject: true},
		{name: "new object with broId", kind: broxml.KindRegistration, broID: "GMW1", startsObject: true, wantErr: broxml.ErrBroIDNotAllowed},
		{name: "event without broId", kind: broxml.KindRegistration, wantErr: broxml.ErrBroIDRequired},
		{name: "event with broId", kind: broxml.KindRegistration, broID: "GMW1"},
		{name: "replace of new object needs broId", kind: broxml.KindReplace, startsObject: true, wantErr: broxml.ErrBroIDRequired},
		{name: "delete with broId", kind: broxml.KindDelete, broID: "GMW1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := broxml.CheckBroID(tt.kind, "GMW_Test", tt.broID, tt.startsObject)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "GMW_Test")
		})
	}
}

func TestCheckAllowed(t *testing.T) {
	t.Parallel()

	allowed := []string{"GMW_Owner", "GMW_Shift"}
	require.NoError(t, broxml.CheckAllowed(broxml.KindDelete, "GMW_Shift", allowed))

	err := broxml.CheckAllowed(broxml.KindDelete, "GMW_Construction", allowed)
	require.ErrorIs(t, err, broxml.ErrSourceDocNotAllowed)
	assert.Contains(t, err.Error(), "deleteRequest")
}

func TestRequest_Serialize(t *testing.T) {
	t.Parallel()

	req := newSampleRequest("ref-001")

	data, err := req.Bytes()
	require.NoError(t, err)
	want := `<?xml version="1.0" encoding="UTF-8"?>
<ns:registrationRequest xmlns:ns="http://www.broservices.nl/xsd/isgmw/1.1" xmlns:ns1="http://www.broservices.nl/xsd/brocommon/3.0">
  <ns1:requestReference>ref-001</ns1:requestReference>
  <ns1:qualityRegime>IMBRO</ns1:qualityRegime>
</ns:registrationRequest>
`
	assert.Equal(t, strings.TrimSpace(want), strings.TrimSpace(string(data)))

	var buf bytes.Buffer
	n, err := req.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, buf.Bytes())

	// serializing twice must not stack indentation
	again, err := req.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRequest_WriteFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	req := newSampleRequest("ref-002")

	path, err := req.WriteFile(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ref-002.xml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	parsed, err := broxml.ParseRequest(data)
	require.NoError(t, err)
	assert.Equal(t, "ref-002", parsed.Reference())
	assert.Equal(t, "registrationRequest", parsed.Root().Tag)

	named, err := req.WriteFile(dir, "custom.xml")
	require.NoError(t, err)
	assert.Equal(t, "custom.xml", filepath.Base(named))
}

func TestParseRequest_Invalid(t *testing.T) {
	t.Parallel()

	_, err := broxml.ParseRequest([]byte("<unclosed"))
	require.Error(t, err)

	_, err = broxml.ParseRequest([]byte(""))
	require.Error(t, err)
}

func TestRequest_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("deliver before validate", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		portal := mocks.NewMockClient(ctrl)

		_, err := newSampleRequest("r").Deliver(context.Background(), portal)
		require.ErrorIs(t, err, broxml.ErrNotValidated)
	})

	t.Run("invalid request is not delivered", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		portal := mocks.NewMockClient(ctrl)
		portal.EXPECT().Validate(gomock.Any(), gomock.Any()).
			Return(&connector.ValidationResult{Status: connector.StatusInvalid}, nil)

		req := newSampleRequest("r")
		_, err := req.Validate(context.Background(), portal)
		require.NoError(t, err)
		assert.Equal(t, connector.StatusInvalid, req.ValidationStatus())

		_, err = req.Deliver(context.Background(), portal)
		require.ErrorIs(t, err, broxml.ErrNotValid)
		assert.Empty(t, req.DeliveryID())
	})

	t.Run("validate then deliver once", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		portal := mocks.NewMockClient(ctrl)

		req := newSampleRequest("ref-003")
		payload, err := req.Bytes()
		require.NoError(t, err)

		gomock.InOrder(
			portal.EXPECT().Validate(gomock.Any(), payload).
				Return(&connector.ValidationResult{Status: connector.StatusValid}, nil),
			portal.EXPECT().Deliver(gomock.Any(), connector.Document{Filename: "ref-003.xml", Payload: payload}).
				Return(&connector.Delivery{Identifier: "4711"}, nil),
		)

		result, err := req.Validate(context.Background(), portal)
		require.NoError(t, err)
		assert.True(t, result.Valid())

		delivery, err := req.Deliver(context.Background(), portal)
		require.NoError(t, err)
		assert.Equal(t, "4711", delivery.Identifier)
		assert.Equal(t, "4711", req.DeliveryID())

		_, err = req.Deliver(context.Background(), portal)
		require.ErrorIs(t, err, broxml.ErrAlreadyDelivered)
	})

	t.Run("portal errors are returned", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		portal := mocks.NewMockClient(ctrl)
		boom := errors.New("connection refused")
		portal.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil, boom)

		req := newSampleRequest("r")
		_, err := req.Validate(context.Background(), portal)
		require.ErrorIs(t, err, boom)
		assert.Empty(t, req.ValidationStatus())
		assert.Nil(t, req.Validation())
	})
}

func TestWriteMetadata(t *testing.T) {
	t.Parallel()

	root := etree.NewElement("registrationRequest")
	broxml.WriteMetadata(root, "brocom", &broxml.Metadata{
		RequestReference:         "ref",
		DeliveryAccountableParty: "12345678",
		BroID:                    "GMN000000000001",
		QualityRegime:            "IMBRO/A",
	})

	var tags []string
	for _, el := range root.ChildElements() {
		tags = append(tags, el.FullTag())
	}
	assert.Equal(t, "brocom:requestReference brocom:deliveryAccountableParty brocom:broId brocom:qualityRegime",
		strings.Join(tags, " "))
}
