package operations

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

func init() {
	register(Definition{
		Resource: pulse.ResourceAccount,
		Operations: merge(
			crudOperations[pulse.AccountsClient](entity{name: "Account", idParam: "accountId", jsonType: constants.TypeAccount}),
			map[string]Operation{"createAccountApiKey": bind(createAccountAPIKey)},
		),
	})

	register(Definition{
		Resource:   pulse.ResourcePeople,
		Operations: crudOperations[pulse.PeopleClient](entity{name: "Person", idParam: "personId", jsonType: constants.TypePerson}),
	})

	register(Definition{
		Resource: pulse.ResourceTalent,
		Operations: merge(
			crudOperations[pulse.TalentsClient](entity{name: "Talent", idParam: "talentId", jsonType: constants.TypeTalent}),
			map[string]Operation{"getTalentReport": bind(getTalentReport)},
		),
	})

	register(Definition{
		Resource: pulse.ResourceOffice,
		Operations: merge(
			crudOperations[pulse.OfficeClient](entity{name: "Employee", idParam: "employeeId", jsonType: constants.TypeEmployee}),
			map[string]Operation{"getOfficeList": bind(getOfficeList)},
		),
	})

	register(Definition{
		Resource:   pulse.ResourceOrganizations,
		Operations: crudOperations[pulse.OrganizationsClient](entity{name: "Organization", idParam: "organizationId", jsonType: constants.TypeOrganization}),
	})

	register(Definition{
		Resource: pulse.ResourceRecruitment,
		Operations: merge(
			crudOperations[pulse.RecruitmentClient](entity{name: "Campaign", idParam: "campaignId", jsonType: constants.TypeCampaign}),
			map[string]Operation{
				"createCampaignWithStages": bind(createCampaignWithStages),
				"getCampaignStageList":     bind(getCampaignStageList),
				"createCampaignStages":     bind(createCampaignStages),
			},
		),
	})

	register(Definition{
		Resource: pulse.ResourceQuizz,
		Operations: map[string]Operation{
			"getQuizzList":       bind(getQuizzList),
			"getQuizz":           bind(getQuizz),
			"createQuizzSession": bind(createQuizzSession),
			"getQuizzSession":    bind(getQuizzSession),
		},
	})

	register(Definition{
		Resource: pulse.ResourceWorkflow,
		Operations: merge(
			crudOperations[pulse.WorkflowClient](entity{name: "Project", idParam: "projectId", jsonType: constants.TypeProject}),
			map[string]Operation{"getProjectTaskList": bind(getProjectTaskList)},
		),
	})
}

func createAccountAPIKey(ctx context.Context, params Parameters, itemIndex int, client pulse.AccountsClient) (interface{}, error) {
	accountID, err := requiredString(params, "accountId", itemIndex)
	if err != nil {
		return nil, err
	}

	name, err := optionalString(params, "name", itemIndex)
	if err != nil {
		return nil, err
	}

	scopes, err := stringListParam(params, "scopes", itemIndex)
	if err != nil {
		return nil, err
	}

	if len(scopes) == 0 {
		return nil, pulse.ErrMissingScopes
	}

	return client.CreateAPIKey(ctx, accountID, name, scopes)
}

func getTalentReport(ctx context.Context, params Parameters, itemIndex int, client pulse.TalentsClient) (interface{}, error) {
	talentID, err := requiredString(params, "talentId", itemIndex)
	if err != nil {
		return nil, err
	}

	return client.GetReport(ctx, talentID)
}

func getOfficeList(ctx context.Context, params Parameters, itemIndex int, client pulse.OfficeClient) (interface{}, error) {
	return list(ctx, params, itemIndex, client.ListOffices, nil)
}

func createCampaignWithStages(ctx context.Context, params Parameters, itemIndex int, client pulse.RecruitmentClient) (interface{}, error) {
	campaign, err := document(params, itemIndex, constants.TypeCampaign, "")
	if err != nil {
		return nil, err
	}

	stages, err := attributesListParam(params, "stages", itemIndex)
	if err != nil {
		return nil, err
	}

	return client.CreateCampaignWithStages(ctx, campaign, stages)
}

func getCampaignStageList(ctx context.Context, params Parameters, itemIndex int, client pulse.RecruitmentClient) (interface{}, error) {
	campaignID, err := requiredString(params, "campaignId", itemIndex)
	if err != nil {
		return nil, err
	}

	query, err := queryParam(params, itemIndex)
	if err != nil {
		return nil, err
	}

	return client.ListStages(ctx, campaignID, query)
}

func createCampaignStages(ctx context.Context, params Parameters, itemIndex int, client pulse.RecruitmentClient) (interface{}, error) {
	campaignID, err := requiredString(params, "campaignId", itemIndex)
	if err != nil {
		return nil, err
	}

	stages, err := attributesListParam(params, "stages", itemIndex)
	if err != nil {
		return nil, err
	}

	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: stages", pulse.ErrMissingParameter)
	}

	return client.CreateStages(ctx, campaignID, stages)
}

func getQuizzList(ctx context.Context, params Parameters, itemIndex int, client pulse.QuizzClient) (interface{}, error) {
	return list(ctx, params, itemIndex, client.List, client.ListAll)
}

func getQuizz(ctx context.Context, params Parameters, itemIndex int, client pulse.QuizzClient) (interface{}, error) {
	quizzID, err := requiredString(params, "quizzId", itemIndex)
	if err != nil {
		return nil, err
	}

	query, err := queryParam(params, itemIndex)
	if err != nil {
		return nil, err
	}

	return client.Get(ctx, quizzID, query)
}

func createQuizzSession(ctx context.Context, params Parameters, itemIndex int, client pulse.QuizzClient) (interface{}, error) {
	doc, err := document(params, itemIndex, constants.TypeQuizzSession, "")
	if err != nil {
		return nil, err
	}

	return client.CreateSession(ctx, doc)
}

func getQuizzSession(ctx context.Context, params Parameters, itemIndex int, client pulse.QuizzClient) (interface{}, error) {
	sessionID, err := requiredString(params, "sessionId", itemIndex)
	if err != nil {
		return nil, err
	}

	query, err := queryParam(params, itemIndex)
	if err != nil {
		return nil, err
	}

	return client.GetSession(ctx, sessionID, query)
}

func getProjectTaskList(ctx context.Context, params Parameters, itemIndex int, client pulse.WorkflowClient) (interface{}, error) {
	projectID, err := requiredString(params, "projectId", itemIndex)
	if err != nil {
		return nil, err
	}

	query, err := queryParam(params, itemIndex)
	if err != nil {
		return nil, err
	}

	return client.ListTasks(ctx, projectID, query)
}
